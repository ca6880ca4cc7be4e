package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON encoded values of type T under prefixed keys.
type Cache[T any] struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewCache creates a cache whose keys are prefix+key and expire after ttl.
func NewCache[T any](client redis.UniversalClient, prefix string, ttl time.Duration) *Cache[T] {
	return &Cache[T]{client: client, prefix: prefix, ttl: ttl}
}

// Get returns the cached value or ErrCacheMiss.
func (c *Cache[T]) Get(ctx context.Context, key string) (T, error) {
	var v T
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return v, ErrCacheMiss
	}
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, err
	}
	return v, nil
}

// Set stores v with the cache TTL.
func (c *Cache[T]) Set(ctx context.Context, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.prefix+key, raw, c.ttl).Err()
}

// Delete removes keys. Missing keys are not an error.
func (c *Cache[T]) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.prefix + k
	}
	return c.client.Del(ctx, full...).Err()
}
