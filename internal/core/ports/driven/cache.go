package driven

import (
	"context"
	"time"
)

// CacheStore is a TTL-bounded blob store. It is advisory: callers on the
// query path map every error onto miss behavior rather than failing the
// request. Get returns domain.ErrCacheMiss for an absent key and a
// domain.ErrCacheUnavailable-wrapped error when the backend is unreachable,
// so the degradation is visible in the signature instead of swallowed here.
type CacheStore interface {
	// Get retrieves the value stored under key
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. ttl <= 0 selects the configured default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key, reporting whether it existed
	Delete(ctx context.Context, key string) (bool, error)

	// Clear drops every key in the backing store. Blunt global invalidation:
	// the instance must be dedicated to this application's cache.
	Clear(ctx context.Context) error

	// DeriveKey builds a deterministic key from a namespace and the ordered
	// call arguments. Argument order carries meaning.
	DeriveKey(namespace string, args ...string) string

	// HealthCheck verifies the cache backend is available
	HealthCheck(ctx context.Context) error

	// Close releases the backend connection
	Close() error
}
