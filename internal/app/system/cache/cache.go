// internal/app/system/cache/cache.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultTTL applies when a Cache is built with a non-positive ttl.
const DefaultTTL = 24 * time.Hour

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Connect opens a Redis client and pings it. An empty Addr returns (nil, nil):
// callers treat a nil client as "no cache".
func Connect(ctx context.Context, opts Options) (*redis.Client, error) {
	if opts.Addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return rdb, nil
}

// Cache stores JSON values in Redis under a key prefix.
// A Cache without a client is valid and never hits.
type Cache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	log    *zap.Logger
}

// New wraps rdb. rdb may be nil.
func New(rdb *redis.Client, prefix string, ttl time.Duration, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{rdb: rdb, prefix: prefix, ttl: ttl, log: logger}
}

// Enabled reports whether a Redis client is attached.
func (c *Cache) Enabled() bool { return c != nil && c.rdb != nil }

// TTL returns the expiry applied by Set.
func (c *Cache) TTL() time.Duration { return c.ttl }

func (c *Cache) key(k string) string { return c.prefix + k }

// Get decodes the value stored at key into dst.
// A miss returns (false, nil).
func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	raw, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		// A value we cannot decode is as good as missing; drop it.
		c.log.Warn("dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		_ = c.rdb.Del(ctx, c.key(key)).Err()
		return false, nil
	}
	return true, nil
}

// Set stores v as JSON at key with the cache TTL.
func (c *Cache) Set(ctx context.Context, key string, v any) error {
	if !c.Enabled() {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, c.key(key), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Del(ctx, c.key(key)).Err()
}

// Ping checks the Redis connection. A disabled cache is always healthy.
func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}
