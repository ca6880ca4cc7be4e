package tenant

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/notekit/pkg/redis"
)

// CacheConfig configures the profile cache.
type CacheConfig struct {
	TTL time.Duration `env:"PROFILE_CACHE_TTL" envDefault:"5m"`
}

// ProfileCache caches resolved profiles by id.
type ProfileCache interface {
	// Get returns false on a miss.
	Get(ctx context.Context, id uuid.UUID) (Profile, bool, error)
	Set(ctx context.Context, p Profile) error
	Delete(ctx context.Context, ids ...uuid.UUID) error
}

const profileCachePrefix = "profile:"

type redisProfileCache struct {
	cache *redis.Cache[Profile]
}

// NewRedisProfileCache stores profiles as JSON under "profile:<id>".
func NewRedisProfileCache(client goredis.UniversalClient, cfg CacheConfig) ProfileCache {
	return &redisProfileCache{cache: redis.NewCache[Profile](client, profileCachePrefix, cfg.TTL)}
}

func (c *redisProfileCache) Get(ctx context.Context, id uuid.UUID) (Profile, bool, error) {
	p, err := c.cache.Get(ctx, id.String())
	if errors.Is(err, redis.ErrCacheMiss) {
		return Profile{}, false, nil
	}
	if err != nil {
		return Profile{}, false, err
	}
	return p, true, nil
}

func (c *redisProfileCache) Set(ctx context.Context, p Profile) error {
	return c.cache.Set(ctx, p.ID.String(), p)
}

func (c *redisProfileCache) Delete(ctx context.Context, ids ...uuid.UUID) error {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}
	return c.cache.Delete(ctx, keys...)
}

type nopCache struct{}

// NopCache never stores anything.
func NopCache() ProfileCache { return nopCache{} }

func (nopCache) Get(context.Context, uuid.UUID) (Profile, bool, error) { return Profile{}, false, nil }
func (nopCache) Set(context.Context, Profile) error                    { return nil }
func (nopCache) Delete(context.Context, ...uuid.UUID) error            { return nil }
