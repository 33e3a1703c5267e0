package sessions

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Blacklist holds logged-out access tokens until they expire.
// A Blacklist without a Redis client is a no-op.
type Blacklist struct {
	client *redis.Client
}

func NewBlacklist(c *redis.Client) *Blacklist {
	return &Blacklist{client: c}
}

func (b *Blacklist) key(token string) string {
	return "blacklist:access:" + Digest(token)
}

// Add stores the token with the given TTL.
func (b *Blacklist) Add(ctx context.Context, token string, ttl time.Duration) error {
	if b == nil || b.client == nil || ttl <= 0 {
		return nil
	}
	return b.client.Set(ctx, b.key(token), "1", ttl).Err()
}

// Contains reports whether the token was blacklisted.
func (b *Blacklist) Contains(ctx context.Context, token string) (bool, error) {
	if b == nil || b.client == nil {
		return false, nil
	}
	exists, err := b.client.Exists(ctx, b.key(token)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}
