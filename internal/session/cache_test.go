package session

import (
	"context"
	"testing"
)

func TestNoOpCache(t *testing.T) {
	cache := &NoOpCache{}
	ctx := context.Background()

	if _, found := cache.Get(ctx, "key"); found {
		t.Error("NoOpCache should never return cached values")
	}

	if !cache.Set(ctx, "key", "token") {
		t.Error("NoOpCache.Set should always return true")
	}

	cache.Delete(ctx, "key")
	cache.Close()
}

func TestRistrettoCache(t *testing.T) {
	cache, err := NewRistrettoCache(&TokenCacheConfig{
		MaxCost:     1 << 16,
		NumCounters: 100,
		BufferItems: 64,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	ctx := context.Background()

	if _, found := cache.Get(ctx, "key"); found {
		t.Error("Cache should be empty initially")
	}

	if !cache.Set(ctx, "key", "token-value") {
		t.Error("Failed to set cache")
	}

	if cached, found := cache.Get(ctx, "key"); !found || cached != "token-value" {
		t.Error("Failed to get cached value")
	}

	cache.Delete(ctx, "key")

	if _, found := cache.Get(ctx, "key"); found {
		t.Error("Cache should be empty after delete")
	}
}
