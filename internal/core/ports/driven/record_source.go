package driven

import (
	"context"

	"github.com/custodia-labs/ragcore/internal/core/domain"
)

// RecordSource pulls denormalized documents from the relational data source.
// Joining rows and synthesizing the natural-language content is the source's
// responsibility, not the pipeline's.
type RecordSource interface {
	// FetchAll returns every document eligible for indexing
	FetchAll(ctx context.Context) ([]*domain.Document, error)

	// HealthCheck verifies the data source is reachable
	HealthCheck(ctx context.Context) error

	// Close releases the underlying connection
	Close() error
}
