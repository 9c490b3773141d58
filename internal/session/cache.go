package session

import (
	"context"

	"github.com/dgraph-io/ristretto"
)

type TokenCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, token string) bool
	Delete(ctx context.Context, key string)
	Close()
}

type NoOpCache struct{}

func (c *NoOpCache) Get(ctx context.Context, key string) (string, bool) {
	return "", false
}

func (c *NoOpCache) Set(ctx context.Context, key, token string) bool {
	return true
}

func (c *NoOpCache) Delete(ctx context.Context, key string) {}

func (c *NoOpCache) Close() {}

type TokenCacheConfig struct {
	MaxCost     int64
	NumCounters int64
	BufferItems int64
}

func NewRistrettoCache(config *TokenCacheConfig) (TokenCache, error) {
	if config == nil {
		config = &TokenCacheConfig{
			MaxCost:     1 << 20,
			NumCounters: 1000,
			BufferItems: 64,
		}
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: config.NumCounters,
		MaxCost:     config.MaxCost,
		BufferItems: config.BufferItems,
	})
	if err != nil {
		return nil, err
	}

	return &RistrettoCache{cache: cache}, nil
}

type RistrettoCache struct {
	cache *ristretto.Cache
}

func (c *RistrettoCache) Get(ctx context.Context, key string) (string, bool) {
	if val, found := c.cache.Get(key); found {
		if token, ok := val.(string); ok {
			return token, true
		}
	}
	return "", false
}

// Set stores the token and waits for the write buffer so a following Get
// observes it.
func (c *RistrettoCache) Set(ctx context.Context, key, token string) bool {
	ok := c.cache.Set(key, token, int64(len(token)))
	c.cache.Wait()
	return ok
}

func (c *RistrettoCache) Delete(ctx context.Context, key string) {
	c.cache.Del(key)
}

func (c *RistrettoCache) Close() {
	c.cache.Close()
}
