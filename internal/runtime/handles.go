package runtime

import (
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/ragcore/internal/core/domain"
	"github.com/custodia-labs/ragcore/internal/core/ports/driven"
)

// Handles holds references to the driven collaborators the pipelines depend
// on, constructed once at startup and passed into the services. Readiness is
// an explicit check against this value rather than a free-floating flag, so
// tests can construct handles with deliberately missing or failing stubs.
// Thread-safe for concurrent access; AI services can be swapped at runtime.
type Handles struct {
	mu sync.RWMutex

	cache        driven.CacheStore
	vectorIndex  driven.VectorIndex
	recordSource driven.RecordSource

	// Dynamic services (can be nil, updated at runtime)
	embeddingService driven.EmbeddingService
	llmService       driven.LLMService

	cacheTTL  time.Duration
	batchSize int
}

// Config holds the collaborators and knobs for a Handles value
type Config struct {
	Cache        driven.CacheStore
	VectorIndex  driven.VectorIndex
	RecordSource driven.RecordSource
	Embedding    driven.EmbeddingService
	LLM          driven.LLMService

	// CacheTTL is the default lifetime of cached exchanges
	CacheTTL time.Duration

	// BatchSize bounds how many documents one ingestion upsert carries
	BatchSize int
}

// DefaultCacheTTL matches the reference deployment's one-hour cache
const DefaultCacheTTL = time.Hour

// DefaultBatchSize bounds peak memory and request size during ingestion
const DefaultBatchSize = 100

// NewHandles creates a new Handles registry
func NewHandles(cfg Config) *Handles {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}

	return &Handles{
		cache:            cfg.Cache,
		vectorIndex:      cfg.VectorIndex,
		recordSource:     cfg.RecordSource,
		embeddingService: cfg.Embedding,
		llmService:       cfg.LLM,
		cacheTTL:         cfg.CacheTTL,
		batchSize:        cfg.BatchSize,
	}
}

// Ready reports whether the query path can produce a meaningful answer.
// The cache, vector index, and LLM handles must all be present; a missing
// one makes every chat request fail as service-unavailable.
func (h *Handles) Ready() error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	missing := ""
	switch {
	case h.cache == nil:
		missing = "cache"
	case h.vectorIndex == nil:
		missing = "vector index"
	case h.llmService == nil:
		missing = "llm"
	}
	if missing != "" {
		return fmt.Errorf("%w: %s not initialized", domain.ErrNotReady, missing)
	}
	return nil
}

// Cache returns the cache store (may be nil)
func (h *Handles) Cache() driven.CacheStore {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cache
}

// VectorIndex returns the vector index (may be nil)
func (h *Handles) VectorIndex() driven.VectorIndex {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.vectorIndex
}

// RecordSource returns the record source (may be nil)
func (h *Handles) RecordSource() driven.RecordSource {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.recordSource
}

// EmbeddingService returns the current embedding service (may be nil)
func (h *Handles) EmbeddingService() driven.EmbeddingService {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.embeddingService
}

// LLMService returns the current LLM service (may be nil)
func (h *Handles) LLMService() driven.LLMService {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.llmService
}

// CacheTTL returns the default TTL for cached exchanges
func (h *Handles) CacheTTL() time.Duration {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cacheTTL
}

// BatchSize returns the ingestion batch size
func (h *Handles) BatchSize() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.batchSize
}

// SetEmbeddingService updates the embedding service.
// Closes the old service if present.
func (h *Handles) SetEmbeddingService(svc driven.EmbeddingService) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.embeddingService != nil {
		_ = h.embeddingService.Close()
	}
	h.embeddingService = svc
}

// SetLLMService updates the LLM service.
// Closes the old service if present.
func (h *Handles) SetLLMService(svc driven.LLMService) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.llmService != nil {
		_ = h.llmService.Close()
	}
	h.llmService = svc
}

// Close shuts down every held collaborator
func (h *Handles) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.embeddingService != nil {
		_ = h.embeddingService.Close()
		h.embeddingService = nil
	}
	if h.llmService != nil {
		_ = h.llmService.Close()
		h.llmService = nil
	}
	if h.cache != nil {
		_ = h.cache.Close()
		h.cache = nil
	}
	if h.recordSource != nil {
		_ = h.recordSource.Close()
		h.recordSource = nil
	}
	h.vectorIndex = nil

	return nil
}
