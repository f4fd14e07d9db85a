package runtime

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/custodia-labs/ragcore/internal/core/domain"
	"github.com/custodia-labs/ragcore/internal/core/ports/driven/mocks"
)

func fullConfig() Config {
	return Config{
		Cache:        mocks.NewMockCacheStore(),
		VectorIndex:  mocks.NewMockVectorIndex(),
		RecordSource: mocks.NewMockRecordSource(),
		Embedding:    mocks.NewMockEmbeddingService(),
		LLM:          mocks.NewMockLLMService(),
	}
}

func TestHandles_Ready(t *testing.T) {
	handles := NewHandles(fullConfig())
	if err := handles.Ready(); err != nil {
		t.Errorf("expected ready with all collaborators, got %v", err)
	}
}

func TestHandles_Ready_MissingCollaborators(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no cache", func(c *Config) { c.Cache = nil }, "cache"},
		{"no vector index", func(c *Config) { c.VectorIndex = nil }, "vector index"},
		{"no llm", func(c *Config) { c.LLM = nil }, "llm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := fullConfig()
			tt.mutate(&cfg)

			err := NewHandles(cfg).Ready()
			if !errors.Is(err, domain.ErrNotReady) {
				t.Fatalf("expected ErrNotReady, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error to name %q, got %v", tt.want, err)
			}
		})
	}
}

func TestHandles_Ready_ToleratesMissingOptionalCollaborators(t *testing.T) {
	cfg := fullConfig()
	cfg.RecordSource = nil
	cfg.Embedding = nil

	if err := NewHandles(cfg).Ready(); err != nil {
		t.Errorf("record source and embedding are optional for readiness, got %v", err)
	}
}

func TestHandles_Defaults(t *testing.T) {
	handles := NewHandles(Config{})

	if handles.CacheTTL() != DefaultCacheTTL {
		t.Errorf("expected default cache TTL, got %v", handles.CacheTTL())
	}
	if handles.BatchSize() != DefaultBatchSize {
		t.Errorf("expected default batch size, got %d", handles.BatchSize())
	}
}

func TestHandles_ConfigOverrides(t *testing.T) {
	handles := NewHandles(Config{CacheTTL: 5 * time.Minute, BatchSize: 25})

	if handles.CacheTTL() != 5*time.Minute {
		t.Errorf("expected 5m cache TTL, got %v", handles.CacheTTL())
	}
	if handles.BatchSize() != 25 {
		t.Errorf("expected batch size 25, got %d", handles.BatchSize())
	}
}

func TestHandles_SwapServices(t *testing.T) {
	handles := NewHandles(fullConfig())

	replacement := mocks.NewMockLLMService()
	replacement.SetAnswer("new model")
	handles.SetLLMService(replacement)

	if handles.LLMService() != replacement {
		t.Error("expected replacement llm service")
	}

	handles.SetEmbeddingService(nil)
	if handles.EmbeddingService() != nil {
		t.Error("expected embedding service cleared")
	}
}

func TestHandles_CloseClearsEverything(t *testing.T) {
	handles := NewHandles(fullConfig())

	if err := handles.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if handles.Cache() != nil || handles.VectorIndex() != nil || handles.LLMService() != nil {
		t.Error("expected all collaborators released after close")
	}
	if err := handles.Ready(); !errors.Is(err, domain.ErrNotReady) {
		t.Errorf("expected ErrNotReady after close, got %v", err)
	}
}
