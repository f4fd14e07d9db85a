package rediscache

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/custodia-labs/ragcore/internal/core/domain"
	"github.com/custodia-labs/ragcore/internal/core/ports/driven"
	"github.com/redis/go-redis/v9"
)

// Verify interface compliance
var _ driven.CacheStore = (*Store)(nil)

// Store implements driven.CacheStore using Redis.
// Errors are returned, not swallowed: the orchestrator maps them onto miss
// behavior, keeping the degradation visible in the signature. Clear flushes
// the whole instance, so the Redis database must be dedicated to this
// application's cache.
type Store struct {
	client     *redis.Client
	defaultTTL time.Duration
}

// NewStore creates a new Redis-backed Store. The client manages its own
// connection pool; connections are established lazily on first command.
func NewStore(client *redis.Client, defaultTTL time.Duration) *Store {
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	return &Store{
		client:     client,
		defaultTTL: defaultTTL,
	}
}

// Get retrieves the value stored under key
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return value, nil
}

// Set stores value under key. ttl <= 0 selects the configured default.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// Delete removes key, reporting whether it existed
func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	removed, err := s.client.Del(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return removed > 0, nil
}

// Clear drops every key in the instance. Blunt global invalidation, used
// after re-ingestion when the whole cached corpus may be stale.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.FlushAll(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// DeriveKey builds a deterministic key: the stringified args joined with ":"
// are hashed with FNV-1a 64 and prefixed with the namespace. Same namespace
// and same ordered args always yield the same key; order carries meaning.
func (s *Store) DeriveKey(namespace string, args ...string) string {
	h := fnv.New64a()
	h.Write([]byte(strings.Join(args, ":")))
	return fmt.Sprintf("%s:%x", namespace, h.Sum64())
}

// HealthCheck verifies the cache backend is available
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// Close releases the backend connection
func (s *Store) Close() error {
	return s.client.Close()
}
