package ollama

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/ragcore/internal/core/domain"
	"github.com/custodia-labs/ragcore/internal/core/ports/driven"
)

// Ensure Embedding implements EmbeddingService
var _ driven.EmbeddingService = (*Embedding)(nil)

// Embedding implements EmbeddingService using Ollama's embedding API
type Embedding struct {
	client *Client
	model  string
}

// NewEmbedding creates a new Ollama embedding service
func NewEmbedding(client *Client, model string) (*Embedding, error) {
	if model == "" {
		return nil, fmt.Errorf("embedding model name is required")
	}
	return &Embedding{
		client: client,
		model:  model,
	}, nil
}

// embeddingRequest is the request body for the Ollama embedding API
type embeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// embeddingResponse covers the vector shapes Ollama has shipped across
// versions: a flat "embedding" array, or a list-wrapped "embeddings" array.
type embeddingResponse struct {
	Embedding  []float32   `json:"embedding"`
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed generates embeddings for multiple texts, in input order. The first
// text whose embedding cannot be produced fails the whole call.
func (e *Embedding) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embedding, err := e.EmbedQuery(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = embedding
	}
	return embeddings, nil
}

// EmbedQuery generates an embedding for a single text
func (e *Embedding) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	reqBody := embeddingRequest{
		Model:  e.model,
		Prompt: query,
	}

	respBody, err := e.client.post(ctx, "/api/embeddings", reqBody)
	if err != nil {
		return nil, err
	}

	return extractEmbedding(respBody)
}

// extractEmbedding normalizes the response to a flat vector. Recognized
// shapes are attempted in fixed priority order; anything else is a typed
// extraction failure, never a silent default.
func extractEmbedding(respBody []byte) ([]float32, error) {
	var resp embeddingResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmbeddingExtraction, truncate(respBody, 200))
	}

	if len(resp.Embedding) > 0 {
		return resp.Embedding, nil
	}
	if len(resp.Embeddings) > 0 && len(resp.Embeddings[0]) > 0 {
		return resp.Embeddings[0], nil
	}

	return nil, fmt.Errorf("%w: %s", domain.ErrEmbeddingExtraction, truncate(respBody, 200))
}

// Model returns the model name being used
func (e *Embedding) Model() string {
	return e.model
}

// HealthCheck verifies the embedding service is available
func (e *Embedding) HealthCheck(ctx context.Context) error {
	_, err := e.EmbedQuery(ctx, "health check")
	return err
}

// Close releases resources held by the embedding service
func (e *Embedding) Close() error {
	return e.client.Close()
}
