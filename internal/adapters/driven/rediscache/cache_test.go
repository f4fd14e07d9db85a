package rediscache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/ragcore/internal/core/domain"
)

// setupTestStore creates a test Redis client and Store
func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis, func()) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	store := NewStore(client, time.Hour)

	return store, mr, func() {
		client.Close()
		mr.Close()
	}
}

func TestStore_SetGet(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	value := []byte(`{"answer":"42"}`)

	if err := store.Set(ctx, "chat:abc", value, 0); err != nil {
		t.Fatalf("unexpected error setting value: %v", err)
	}

	got, err := store.Get(ctx, "chat:abc")
	if err != nil {
		t.Fatalf("unexpected error getting value: %v", err)
	}
	if string(got) != string(value) {
		t.Errorf("expected %s, got %s", value, got)
	}
}

func TestStore_Get_Miss(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.Get(context.Background(), "chat:never-set")
	if err != domain.ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	store, mr, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	if err := store.Set(ctx, "chat:short", []byte("v"), 10*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// miniredis advances time manually
	mr.FastForward(11 * time.Second)

	_, err := store.Get(ctx, "chat:short")
	if err != domain.ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss after TTL expiry, got %v", err)
	}
}

func TestStore_DefaultTTLApplied(t *testing.T) {
	store, mr, cleanup := setupTestStore(t)
	defer cleanup()

	if err := store.Set(context.Background(), "chat:default", []byte("v"), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ttl := mr.TTL("chat:default")
	if ttl != time.Hour {
		t.Errorf("expected default TTL of 1h, got %v", ttl)
	}
}

func TestStore_Delete(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	_ = store.Set(ctx, "chat:doomed", []byte("v"), 0)

	existed, err := store.Delete(ctx, "chat:doomed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !existed {
		t.Error("expected delete to report the key existed")
	}

	existed, err = store.Delete(ctx, "chat:doomed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if existed {
		t.Error("expected second delete to report the key was gone")
	}
}

func TestStore_Clear(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	_ = store.Set(ctx, "chat:a", []byte("1"), 0)
	_ = store.Set(ctx, "chat:b", []byte("2"), 0)

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := store.Get(ctx, "chat:a"); err != domain.ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss after clear, got %v", err)
	}
	if _, err := store.Get(ctx, "chat:b"); err != domain.ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss after clear, got %v", err)
	}
}

func TestStore_BackendDown(t *testing.T) {
	store, mr, cleanup := setupTestStore(t)
	defer cleanup()

	mr.Close()

	ctx := context.Background()

	if _, err := store.Get(ctx, "chat:x"); !errors.Is(err, domain.ErrCacheUnavailable) {
		t.Errorf("expected ErrCacheUnavailable from Get, got %v", err)
	}
	if err := store.Set(ctx, "chat:x", []byte("v"), 0); !errors.Is(err, domain.ErrCacheUnavailable) {
		t.Errorf("expected ErrCacheUnavailable from Set, got %v", err)
	}
	if _, err := store.Delete(ctx, "chat:x"); !errors.Is(err, domain.ErrCacheUnavailable) {
		t.Errorf("expected ErrCacheUnavailable from Delete, got %v", err)
	}
	if err := store.Clear(ctx); !errors.Is(err, domain.ErrCacheUnavailable) {
		t.Errorf("expected ErrCacheUnavailable from Clear, got %v", err)
	}
}

func TestStore_DeriveKey_Deterministic(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	first := store.DeriveKey("chat", "what is stock?", "5")
	second := store.DeriveKey("chat", "what is stock?", "5")

	if first != second {
		t.Errorf("expected identical keys for identical args, got %s and %s", first, second)
	}
}

func TestStore_DeriveKey_OrderSensitive(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	forward := store.DeriveKey("chat", "a", "b")
	swapped := store.DeriveKey("chat", "b", "a")

	if forward == swapped {
		t.Errorf("expected different keys for swapped args, both were %s", forward)
	}
}

func TestStore_DeriveKey_NamespacePrefix(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	key := store.DeriveKey("chat", "question", "5")
	if len(key) < 6 || key[:5] != "chat:" {
		t.Errorf("expected key prefixed with namespace, got %s", key)
	}
}
