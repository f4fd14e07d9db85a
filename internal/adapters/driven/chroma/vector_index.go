package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/ragcore/internal/core/domain"
	"github.com/custodia-labs/ragcore/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex implements driven.VectorIndex using Chroma's HTTP API.
// The collection is created with cosine similarity and resolved lazily on
// first use, then reused for the life of the process.
type VectorIndex struct {
	baseURL    string
	collection string
	httpClient *http.Client

	mu           sync.Mutex
	collectionID string
}

// Config holds Chroma connection configuration
type Config struct {
	// BaseURL is the Chroma endpoint (e.g., http://localhost:8001)
	BaseURL string

	// Collection is the collection name documents are indexed under
	Collection string

	// Timeout for HTTP requests
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:    baseURL,
		Collection: "business_records",
		Timeout:    30 * time.Second,
	}
}

// NewVectorIndex creates a new Chroma-backed VectorIndex
func NewVectorIndex(cfg Config) *VectorIndex {
	if cfg.Collection == "" {
		cfg.Collection = "business_records"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &VectorIndex{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		collection: cfg.Collection,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// createCollectionRequest asks Chroma for a cosine-space collection
type createCollectionRequest struct {
	Name        string            `json:"name"`
	Metadata    map[string]string `json:"metadata"`
	GetOrCreate bool              `json:"get_or_create"`
}

type collectionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// addRequest carries one batch of documents in Chroma's parallel-array shape
type addRequest struct {
	IDs        []string         `json:"ids"`
	Embeddings [][]float32      `json:"embeddings"`
	Documents  []string         `json:"documents"`
	Metadatas  []map[string]any `json:"metadatas"`
}

// queryRequest is a nearest-neighbor query over the collection
type queryRequest struct {
	QueryEmbeddings [][]float32 `json:"query_embeddings"`
	NResults        int         `json:"n_results"`
	Include         []string    `json:"include"`
}

// queryResponse holds Chroma's per-query result arrays
type queryResponse struct {
	IDs       [][]string         `json:"ids"`
	Documents [][]string         `json:"documents"`
	Metadatas [][]map[string]any `json:"metadatas"`
	Distances [][]float64        `json:"distances"`
}

// Upsert adds a batch of indexed documents. Chroma applies the add
// atomically per request, so a failed batch leaves none of it indexed.
func (v *VectorIndex) Upsert(ctx context.Context, docs []*domain.IndexedDocument) error {
	if len(docs) == 0 {
		return nil
	}

	collectionID, err := v.resolveCollection(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve collection: %w", err)
	}

	req := addRequest{
		IDs:        make([]string, len(docs)),
		Embeddings: make([][]float32, len(docs)),
		Documents:  make([]string, len(docs)),
		Metadatas:  make([]map[string]any, len(docs)),
	}
	for i, doc := range docs {
		req.IDs[i] = doc.StorageID
		req.Embeddings[i] = doc.Embedding
		req.Documents[i] = doc.Content
		req.Metadatas[i] = map[string]any{
			"type": string(doc.Type),
			"id":   doc.SourceID,
		}
	}

	path := fmt.Sprintf("/api/v1/collections/%s/add", collectionID)
	if _, err := v.post(ctx, path, req); err != nil {
		return fmt.Errorf("chroma add failed: %w", err)
	}
	return nil
}

// Query returns up to k matches ordered by ascending distance
func (v *VectorIndex) Query(ctx context.Context, embedding []float32, k int) ([]*domain.RetrievedMatch, error) {
	if len(embedding) == 0 {
		return nil, fmt.Errorf("%w: empty query embedding", domain.ErrIndexQuery)
	}

	collectionID, err := v.resolveCollection(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIndexQuery, err)
	}

	req := queryRequest{
		QueryEmbeddings: [][]float32{embedding},
		NResults:        k,
		Include:         []string{"documents", "metadatas", "distances"},
	}

	path := fmt.Sprintf("/api/v1/collections/%s/query", collectionID)
	respBody, err := v.post(ctx, path, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIndexQuery, err)
	}

	var resp queryResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", domain.ErrIndexQuery, err)
	}
	if len(resp.Documents) == 0 {
		return []*domain.RetrievedMatch{}, nil
	}

	matches := make([]*domain.RetrievedMatch, 0, len(resp.Documents[0]))
	for i, content := range resp.Documents[0] {
		match := &domain.RetrievedMatch{Content: content}
		if i < len(resp.Metadatas[0]) {
			match.Metadata = decodeMetadata(resp.Metadatas[0][i])
		}
		if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
			match.Distance = resp.Distances[0][i]
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// HealthCheck verifies the vector store is available
func (v *VectorIndex) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/api/v1/heartbeat", nil)
	if err != nil {
		return err
	}
	resp, err := v.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("chroma heartbeat returned status %d", resp.StatusCode)
	}
	return nil
}

// resolveCollection returns the cached collection ID, creating the cosine
// collection on first use
func (v *VectorIndex) resolveCollection(ctx context.Context) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.collectionID != "" {
		return v.collectionID, nil
	}

	req := createCollectionRequest{
		Name:        v.collection,
		Metadata:    map[string]string{"hnsw:space": "cosine"},
		GetOrCreate: true,
	}
	respBody, err := v.post(ctx, "/api/v1/collections", req)
	if err != nil {
		return "", err
	}

	var resp collectionResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to parse collection response: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("collection response missing id")
	}

	v.collectionID = resp.ID
	return v.collectionID, nil
}

// post sends a JSON request and returns the raw response body
func (v *VectorIndex) post(ctx context.Context, path string, reqBody any) ([]byte, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("chroma returned %s: %s", resp.Status, string(respBody))
	}
	return respBody, nil
}

// decodeMetadata maps a Chroma metadata object back onto the domain shape.
// Numbers arrive as float64 through generic JSON decoding.
func decodeMetadata(raw map[string]any) domain.MatchMetadata {
	meta := domain.MatchMetadata{}
	if t, ok := raw["type"].(string); ok {
		meta.Type = domain.DocumentType(t)
	}
	if id, ok := raw["id"].(float64); ok {
		meta.ID = int(id)
	}
	return meta
}
