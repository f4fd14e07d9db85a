package driven

import (
	"context"

	"github.com/custodia-labs/ragcore/internal/core/domain"
)

// VectorIndex handles nearest-neighbor storage and search over embedded
// documents (cosine-similarity space)
type VectorIndex interface {
	// Upsert adds a batch of indexed documents. The batch is all-or-nothing:
	// a failure leaves none of its documents indexed.
	Upsert(ctx context.Context, docs []*domain.IndexedDocument) error

	// Query returns up to k matches for the embedding, ordered by ascending
	// distance. It fails with domain.ErrIndexQuery when the store is
	// unreachable; empty and failed are distinguishable to callers.
	Query(ctx context.Context, embedding []float32, k int) ([]*domain.RetrievedMatch, error)

	// HealthCheck verifies the vector store is available
	HealthCheck(ctx context.Context) error
}
