package mocks

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/ragcore/internal/core/domain"
)

// MockCacheStore is an in-memory mock implementation of CacheStore.
// TTLs are recorded but not enforced.
type MockCacheStore struct {
	mu         sync.Mutex
	values     map[string][]byte
	failAlways bool
	SetCalls   int
	GetCalls   int
}

// NewMockCacheStore creates a new MockCacheStore
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{
		values: make(map[string][]byte),
	}
}

func (m *MockCacheStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls++
	if m.failAlways {
		return nil, fmt.Errorf("%w: mock failure", domain.ErrCacheUnavailable)
	}
	value, ok := m.values[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return value, nil
}

func (m *MockCacheStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetCalls++
	if m.failAlways {
		return fmt.Errorf("%w: mock failure", domain.ErrCacheUnavailable)
	}
	m.values[key] = value
	return nil
}

func (m *MockCacheStore) Delete(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failAlways {
		return false, fmt.Errorf("%w: mock failure", domain.ErrCacheUnavailable)
	}
	_, ok := m.values[key]
	delete(m.values, key)
	return ok, nil
}

func (m *MockCacheStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failAlways {
		return fmt.Errorf("%w: mock failure", domain.ErrCacheUnavailable)
	}
	m.values = make(map[string][]byte)
	return nil
}

// DeriveKey mirrors the production FNV-based derivation
func (m *MockCacheStore) DeriveKey(namespace string, args ...string) string {
	h := fnv.New64a()
	h.Write([]byte(strings.Join(args, ":")))
	return fmt.Sprintf("%s:%x", namespace, h.Sum64())
}

func (m *MockCacheStore) HealthCheck(ctx context.Context) error {
	if m.failAlways {
		return domain.ErrCacheUnavailable
	}
	return nil
}

func (m *MockCacheStore) Close() error {
	return nil
}

// Len returns the number of stored entries
func (m *MockCacheStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}

// Helper methods for testing

func (m *MockCacheStore) SetFailAlways(fail bool) {
	m.failAlways = fail
}
