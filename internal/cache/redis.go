// Package cache provides the Redis access layer. It holds the bearer
// token denylist.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	poolSize        = 10
	minIdleConns    = 2
	poolTimeout     = 4 * time.Second
	connMaxIdleTime = 5 * time.Minute
	dialPingTimeout = 3 * time.Second
)

// Cache is a Redis-backed store for short-lived auth state.
type Cache struct {
	rdb *redis.Client
}

// New connects to redisURL (redis:// or rediss://) and verifies the server answers.
func New(ctx context.Context, redisURL string) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opt.PoolSize = poolSize
	opt.MinIdleConns = minIdleConns
	opt.PoolTimeout = poolTimeout
	opt.ConnMaxIdleTime = connMaxIdleTime

	c := &Cache{rdb: redis.NewClient(opt)}

	pingCtx, cancel := context.WithTimeout(ctx, dialPingTimeout)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		_ = c.rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return c, nil
}

// Ping reports whether Redis is reachable. Used by the readiness probe.
func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close releases the connection pool.
func (c *Cache) Close() error {
	return c.rdb.Close()
}
