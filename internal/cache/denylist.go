package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// revokedPrefix is the Redis key prefix for revoked token ids.
const revokedPrefix = "auth:revoked:"

// Revoke marks a token id as revoked until the token would expire anyway.
// Tokens already past their expiry are not stored.
func (c *Cache) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := revokeTTL(until, time.Now())
	if ttl <= 0 {
		return nil
	}

	if err := c.rdb.Set(ctx, revokedKey(tokenID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether a token id has been revoked.
func (c *Cache) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := c.rdb.Get(ctx, revokedKey(tokenID)).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
}

func revokedKey(tokenID string) string {
	return revokedPrefix + tokenID
}

// revokeTTL rounds up to whole seconds so the entry never expires before the token.
func revokeTTL(until, now time.Time) time.Duration {
	ttl := until.Sub(now)
	if ttl <= 0 {
		return 0
	}
	return ttl.Truncate(time.Second) + time.Second
}
