// Package cache provides an optional redis-backed TTL cache for third-party
// stats lookups. A nil *Cache is valid and behaves as a permanent miss.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"edgebook/internal/config"
)

var ErrMiss = errors.New("cache: miss")

type Cache struct {
	client   *redis.Client
	statsTTL time.Duration
	liveTTL  time.Duration
}

// New returns nil when the cache is disabled; callers treat a nil Cache as
// always missing.
func New(cfg config.RedisConfig) *Cache {
	if !cfg.Enabled {
		return nil
	}
	return &Cache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		statsTTL: cfg.StatsTTL,
		liveTTL:  cfg.LiveTTL,
	}
}

func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Cache) StatsTTL() time.Duration {
	if c == nil {
		return 0
	}
	return c.statsTTL
}

func (c *Cache) LiveTTL() time.Duration {
	if c == nil {
		return 0
	}
	return c.liveTTL
}

// Get unmarshals the cached JSON value at key into out. Returns ErrMiss when
// the key is absent or the cache is disabled.
func (c *Cache) Get(ctx context.Context, key string, out any) error {
	if c == nil {
		return ErrMiss
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// Set marshals val as JSON and stores it with the given TTL. A disabled cache
// drops the write silently.
func (c *Cache) Set(ctx context.Context, key string, val any, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}
