package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const menuGenerationKey = "menu:generation"

// MenuCache caches public menu reads. Writes invalidate every cached read at once.
// Get reports the generation it read; Set stores under that generation so a
// value loaded before an invalidation is never served after it.
type MenuCache interface {
	Get(ctx context.Context, key string, dst any) (gen int64, hit bool, err error)
	Set(ctx context.Context, gen int64, key string, value any) error
	Invalidate(ctx context.Context) error
}

// RedisMenuCache stores menu reads under generation-versioned keys
type RedisMenuCache struct {
	client *redis.Client
	ttl    time.Duration
}

var menuCacheInstance MenuCache = noopMenuCache{}

// NewRedisMenuCache creates a cache on client with the given entry TTL
func NewRedisMenuCache(client *redis.Client, ttl time.Duration) *RedisMenuCache {
	return &RedisMenuCache{client: client, ttl: ttl}
}

// InitMenuCache connects to redisURL and installs the global cache.
// An empty URL disables caching.
func InitMenuCache(ctx context.Context, redisURL string, ttl time.Duration) (MenuCache, error) {
	if redisURL == "" {
		menuCacheInstance = noopMenuCache{}
		return menuCacheInstance, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	menuCacheInstance = NewRedisMenuCache(client, ttl)
	return menuCacheInstance, nil
}

// GetMenuCache returns the global menu cache
func GetMenuCache() MenuCache {
	return menuCacheInstance
}

// SetMenuCache sets the global menu cache (primarily for testing)
func SetMenuCache(c MenuCache) {
	if c == nil {
		c = noopMenuCache{}
	}
	menuCacheInstance = c
}

func (c *RedisMenuCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, menuGenerationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, err
	}
	return gen, nil
}

func versionedKey(gen int64, key string) string {
	return fmt.Sprintf("menu:v%d:%s", gen, key)
}

// Get decodes the cached value for key into dst and reports whether it was found
func (c *RedisMenuCache) Get(ctx context.Context, key string, dst any) (int64, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return 0, false, err
	}
	data, err := c.client.Get(ctx, versionedKey(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return gen, false, nil
	}
	if err != nil {
		return gen, false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return gen, false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return gen, true, nil
}

// Set stores value under key for generation gen
func (c *RedisMenuCache) Set(ctx context.Context, gen int64, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return c.client.Set(ctx, versionedKey(gen, key), data, c.ttl).Err()
}

// Invalidate moves to a new generation; old entries expire on their own
func (c *RedisMenuCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, menuGenerationKey).Err()
}

type noopMenuCache struct{}

func (noopMenuCache) Get(context.Context, string, any) (int64, bool, error) { return 0, false, nil }
func (noopMenuCache) Set(context.Context, int64, string, any) error         { return nil }
func (noopMenuCache) Invalidate(context.Context) error                      { return nil }

// invalidateMenuCache logs and swallows cache errors
func invalidateMenuCache(ctx context.Context) {
	if err := GetMenuCache().Invalidate(ctx); err != nil {
		slog.WarnContext(ctx, "failed to invalidate menu cache", slog.String("error", err.Error()))
	}
}
