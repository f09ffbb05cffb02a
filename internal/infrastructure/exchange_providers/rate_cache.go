// internal/infrastructure/exchange_providers/rate_cache.go
package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedEntry is the last successful live fetch of a source.
type CachedEntry struct {
	Rate      float64   `json:"rate"`
	FetchedAt time.Time `json:"fetched_at"`
}

// RateCache stores entries by source key. Freshness is decided by the caller,
// ttl only bounds how long the backend keeps the entry around.
type RateCache interface {
	Get(ctx context.Context, key string) (CachedEntry, bool, error)
	Set(ctx context.Context, key string, entry CachedEntry, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type MemoryRateCache struct {
	entries map[string]CachedEntry
	mu      sync.RWMutex
}

func NewMemoryRateCache() *MemoryRateCache {
	return &MemoryRateCache{
		entries: make(map[string]CachedEntry),
	}
}

func (c *MemoryRateCache) Get(_ context.Context, key string) (CachedEntry, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	return entry, exists, nil
}

func (c *MemoryRateCache) Set(_ context.Context, key string, entry CachedEntry, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry
	return nil
}

func (c *MemoryRateCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

// RedisRateCache shares entries between replicas, keys are namespace:key.
type RedisRateCache struct {
	client    redis.UniversalClient
	namespace string
}

func NewRedisRateCache(client redis.UniversalClient, namespace string) *RedisRateCache {
	return &RedisRateCache{
		client:    client,
		namespace: namespace,
	}
}

func (c *RedisRateCache) Get(ctx context.Context, key string) (CachedEntry, bool, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return CachedEntry{}, false, nil
	}
	if err != nil {
		return CachedEntry{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var entry CachedEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return CachedEntry{}, false, fmt.Errorf("decode cached rate %s: %w", key, err)
	}
	return entry, true, nil
}

func (c *RedisRateCache) Set(ctx context.Context, key string, entry CachedEntry, ttl time.Duration) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cached rate %s: %w", key, err)
	}
	return c.client.Set(ctx, c.key(key), raw, ttl).Err()
}

func (c *RedisRateCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}

func (c *RedisRateCache) key(key string) string {
	return c.namespace + ":" + key
}
