package dbal

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheGetSet(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(4)

	if _, err := cache.Get(ctx, "missing"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() on empty cache error = %v, want ErrCacheMiss", err)
	}

	if err := cache.Set(ctx, "k1", []byte("v1"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, err := cache.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(value) != "v1" {
		t.Errorf("Get() = %q, want %q", value, "v1")
	}

	// Overwrite does not grow the cache.
	if err := cache.Set(ctx, "k1", []byte("v2"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d after overwrite, want 1", cache.Len())
	}
	value, _ = cache.Get(ctx, "k1")
	if string(value) != "v2" {
		t.Errorf("Get() after overwrite = %q, want %q", value, "v2")
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(4)

	_ = cache.Set(ctx, "k1", []byte("v1"), 0)
	if err := cache.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := cache.Get(ctx, "k1"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() after delete error = %v, want ErrCacheMiss", err)
	}

	// Deleting a missing key is a no-op.
	if err := cache.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete() on missing key error = %v", err)
	}
}

func TestMemoryCacheTTL(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(4)

	_ = cache.Set(ctx, "short", []byte("v"), 10*time.Millisecond)
	_ = cache.Set(ctx, "forever", []byte("v"), 0)

	if _, err := cache.Get(ctx, "short"); err != nil {
		t.Fatalf("Get() before expiry error = %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	if _, err := cache.Get(ctx, "short"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() after expiry error = %v, want ErrCacheMiss", err)
	}
	if _, err := cache.Get(ctx, "forever"); err != nil {
		t.Errorf("Get() with zero ttl error = %v, want stored value", err)
	}

	// Expired entries are dropped on read.
	if cache.Len() != 1 {
		t.Errorf("Len() = %d after expiry read, want 1", cache.Len())
	}
}

func TestMemoryCacheEviction(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(2)

	_ = cache.Set(ctx, "a", []byte("1"), 0)
	_ = cache.Set(ctx, "b", []byte("2"), 0)

	// Touch "a" so "b" becomes the eviction candidate.
	if _, err := cache.Get(ctx, "a"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	_ = cache.Set(ctx, "c", []byte("3"), 0)

	if cache.Len() != 2 {
		t.Fatalf("Len() = %d after eviction, want 2", cache.Len())
	}
	if _, err := cache.Get(ctx, "b"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get(b) error = %v, want ErrCacheMiss (least recently used)", err)
	}
	if _, err := cache.Get(ctx, "a"); err != nil {
		t.Errorf("Get(a) error = %v, want recently used entry to survive", err)
	}
	if _, err := cache.Get(ctx, "c"); err != nil {
		t.Errorf("Get(c) error = %v, want newest entry to survive", err)
	}
}

func TestMemoryCacheDefaultCapacity(t *testing.T) {
	cache := NewMemoryCache(0)
	if cache.capacity != 128 {
		t.Errorf("capacity = %d, want 128", cache.capacity)
	}
}

func TestCacheKey(t *testing.T) {
	k1 := cacheKey("SELECT * FROM users WHERE id = ?", []any{1})
	k2 := cacheKey("SELECT * FROM users WHERE id = ?", []any{1})
	k3 := cacheKey("SELECT * FROM users WHERE id = ?", []any{2})
	k4 := cacheKey("SELECT * FROM users WHERE name = ?", []any{1})

	if k1 != k2 {
		t.Error("cacheKey() is not deterministic for identical input")
	}
	if k1 == k3 {
		t.Error("cacheKey() collision for different args")
	}
	if k1 == k4 {
		t.Error("cacheKey() collision for different queries")
	}
	if len(k1) != 64 {
		t.Errorf("cacheKey() length = %d, want 64 hex chars", len(k1))
	}
}

func BenchmarkMemoryCacheGet(b *testing.B) {
	ctx := context.Background()
	cache := NewMemoryCache(128)
	_ = cache.Set(ctx, "key", []byte("value"), 0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = cache.Get(ctx, "key")
	}
}
