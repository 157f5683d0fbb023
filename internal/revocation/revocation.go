package revocation

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Optional Redis-backed token denylist. Verification stays delegated to the
// identity provider; the denylist only lets operators cut off a leaked token
// before it expires.

var client *redis.Client

// SetClient configures the Redis client used for denylist operations.
// Safe to call with nil to disable revocation checks.
func SetClient(c *redis.Client) {
	client = c
}

func key(token string) string {
	return "revoked:token:" + token
}

// Revoke stores the token in the denylist for ttl. No-op without Redis.
func Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	return client.Set(ctx, key(token), "1", ttl).Err()
}

// IsRevoked reports whether the token is denylisted. Returns (false, nil)
// when Redis is not configured.
func IsRevoked(ctx context.Context, token string) (bool, error) {
	if client == nil {
		return false, nil
	}
	exists, err := client.Exists(ctx, key(token)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}
