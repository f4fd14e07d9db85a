package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/custodia-labs/ragcore/internal/core/domain"
)

func TestExtractEmbedding_FlatShape(t *testing.T) {
	payload := []byte(`{"embedding": [0.1, 0.2, 0.3]}`)

	embedding, err := extractEmbedding(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(embedding) != 3 {
		t.Errorf("expected 3 dims, got %d", len(embedding))
	}
}

func TestExtractEmbedding_ListWrappedShape(t *testing.T) {
	payload := []byte(`{"embeddings": [[0.5, 0.6]]}`)

	embedding, err := extractEmbedding(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(embedding) != 2 {
		t.Errorf("expected 2 dims, got %d", len(embedding))
	}
	if embedding[0] != 0.5 {
		t.Errorf("expected first dim 0.5, got %f", embedding[0])
	}
}

func TestExtractEmbedding_FlatShapeWins(t *testing.T) {
	// Both shapes present: the flat field is tried first
	payload := []byte(`{"embedding": [1], "embeddings": [[2]]}`)

	embedding, err := extractEmbedding(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if embedding[0] != 1 {
		t.Errorf("expected flat shape to take priority, got %f", embedding[0])
	}
}

func TestExtractEmbedding_UnrecognizedShape(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty object", `{}`},
		{"empty vector", `{"embedding": []}`},
		{"empty wrapper", `{"embeddings": []}`},
		{"wrong field", `{"vector": [0.1]}`},
		{"not json", `embedding: nope`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extractEmbedding([]byte(tt.payload))
			if !errors.Is(err, domain.ErrEmbeddingExtraction) {
				t.Errorf("expected ErrEmbeddingExtraction, got %v", err)
			}
		})
	}
}

func TestEmbedding_EmbedQuery(t *testing.T) {
	var gotReq embeddingRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(map[string]any{"embedding": []float32{0.1, 0.2}})
	}))
	defer server.Close()

	embedding, err := NewEmbedding(NewClient(DefaultConfig(server.URL)), "nomic-embed-text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vector, err := embedding.EmbedQuery(context.Background(), "stock question")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vector) != 2 {
		t.Errorf("expected 2 dims, got %d", len(vector))
	}
	if gotReq.Model != "nomic-embed-text" {
		t.Errorf("expected model in request, got %q", gotReq.Model)
	}
	if gotReq.Prompt != "stock question" {
		t.Errorf("expected prompt in request, got %q", gotReq.Prompt)
	}
}

func TestEmbedding_Embed_OrderPreserved(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		// Echo the text length as a distinguishable vector
		_ = json.NewEncoder(w).Encode(map[string]any{"embedding": []float32{float32(len(req.Prompt))}})
	}))
	defer server.Close()

	embedding, _ := NewEmbedding(NewClient(DefaultConfig(server.URL)), "m")

	vectors, err := embedding.Embed(context.Background(), []string{"a", "bb", "ccc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vectors) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(vectors))
	}
	for i, want := range []float32{1, 2, 3} {
		if vectors[i][0] != want {
			t.Errorf("vector %d out of order: expected %f, got %f", i, want, vectors[i][0])
		}
	}
}

func TestEmbedding_Embed_FailsOnFirstBadText(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			_ = json.NewEncoder(w).Encode(map[string]any{})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"embedding": []float32{1}})
	}))
	defer server.Close()

	embedding, _ := NewEmbedding(NewClient(DefaultConfig(server.URL)), "m")

	_, err := embedding.Embed(context.Background(), []string{"ok", "bad", "never-reached"})
	if !errors.Is(err, domain.ErrEmbeddingExtraction) {
		t.Fatalf("expected ErrEmbeddingExtraction, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected embedding to stop at the failing text, made %d calls", calls)
	}
}

func TestNewEmbedding_RequiresModel(t *testing.T) {
	if _, err := NewEmbedding(NewClient(DefaultConfig("http://localhost")), ""); err == nil {
		t.Error("expected error for empty model name")
	}
}
