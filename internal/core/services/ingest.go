package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/custodia-labs/ragcore/internal/core/domain"
	"github.com/custodia-labs/ragcore/internal/core/ports/driving"
	"github.com/custodia-labs/ragcore/internal/runtime"
)

// Ensure ingestService implements IngestService
var _ driving.IngestService = (*ingestService)(nil)

// ingestService rebuilds the searchable corpus:
//  1. Pull all denormalized documents from the record source
//  2. Refuse an empty dataset
//  3. Embed and upsert in fixed-size batches, all-or-nothing per batch
//  4. Invalidate the whole chat cache once the corpus has changed
//
// Unlike the query path this fails loud: any stage error propagates to the
// caller. Concurrent queries may observe the old corpus, the new one, or a
// batch boundary in between; refresh is an administrative operation and is
// not synchronized against them.
type ingestService struct {
	handles *runtime.Handles
	logger  *slog.Logger
}

// NewIngestService creates a new IngestService over the given handles
func NewIngestService(handles *runtime.Handles, logger *slog.Logger) driving.IngestService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ingestService{
		handles: handles,
		logger:  logger,
	}
}

// Refresh re-indexes every document from the data source and returns how many
// were processed
func (s *ingestService) Refresh(ctx context.Context) (int, error) {
	if err := s.handles.Ready(); err != nil {
		return 0, err
	}

	source := s.handles.RecordSource()
	embeddingService := s.handles.EmbeddingService()
	if source == nil {
		return 0, fmt.Errorf("%w: record source not initialized", domain.ErrNotReady)
	}
	if embeddingService == nil {
		return 0, fmt.Errorf("%w: embedding service not initialized", domain.ErrNotReady)
	}

	start := time.Now()
	s.logger.Info("starting corpus refresh")

	docs, err := source.FetchAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch records: %w", err)
	}
	if len(docs) == 0 {
		return 0, domain.ErrEmptyDataset
	}
	s.logger.Info("retrieved documents from data source", "count", len(docs))

	batchSize := s.handles.BatchSize()
	vectorIndex := s.handles.VectorIndex()

	// seq is global to the run so storage IDs never collide, even for
	// duplicate (type, id, content) inputs
	seq := 0
	for offset := 0; offset < len(docs); offset += batchSize {
		end := offset + batchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[offset:end]

		texts := make([]string, len(batch))
		for i, doc := range batch {
			texts[i] = doc.Content
		}

		// A single failed embedding aborts the whole batch; partial vector
		// coverage is worse than a visible ingestion failure.
		embeddings, err := embeddingService.Embed(ctx, texts)
		if err != nil {
			return 0, fmt.Errorf("failed to embed batch at offset %d: %w", offset, err)
		}
		if len(embeddings) != len(batch) {
			return 0, fmt.Errorf("embedding count mismatch at offset %d: got %d, want %d",
				offset, len(embeddings), len(batch))
		}

		indexed := make([]*domain.IndexedDocument, len(batch))
		for i, doc := range batch {
			indexed[i] = domain.NewIndexedDocument(doc, embeddings[i], seq)
			seq++
		}

		if err := vectorIndex.Upsert(ctx, indexed); err != nil {
			return 0, fmt.Errorf("failed to upsert batch at offset %d: %w", offset, err)
		}
	}

	// The retrievable corpus changed, so every cached exchange is
	// potentially stale. Blunt global invalidation, not per-key.
	if err := s.handles.Cache().Clear(ctx); err != nil {
		s.logger.Warn("cache invalidation after refresh failed", "error", err)
	}

	s.logger.Info("corpus refresh complete", "documents", len(docs), "took", time.Since(start))
	return len(docs), nil
}
