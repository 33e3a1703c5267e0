package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRepository implements Repository on Redis.
//
//	<prefix><tokenHash>  JSON session, TTL = expiresAt - now
//	<prefix>sub:<sub>    set of token hashes owned by sub
//
// The per-user set may hold hashes whose session already expired; deleting
// a missing key is harmless, so it is never pruned.
type RedisRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisRepository creates a Redis-based session repository. Prefix may be empty.
func NewRedisRepository(client *redis.Client, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = "session:"
	}
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) key(hash string) string {
	return r.prefix + hash
}

func (r *RedisRepository) subKey(sub string) string {
	return r.prefix + "sub:" + sub
}

func (r *RedisRepository) Create(ctx context.Context, s *Session) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	// refresh TTL is constant, so the newest session always outlives the set's previous expiry
	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, r.key(s.TokenHash), b, ttl)
		p.SAdd(ctx, r.subKey(s.Sub), s.TokenHash)
		p.Expire(ctx, r.subKey(s.Sub), ttl)
		return nil
	})
	return err
}

func (r *RedisRepository) GetByHash(ctx context.Context, hash string) (*Session, error) {
	b, err := r.client.Get(ctx, r.key(hash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	if time.Now().UTC().After(s.ExpiresAt) {
		_ = r.client.Del(ctx, r.key(hash)).Err()
		return nil, nil
	}
	return &s, nil
}

func (r *RedisRepository) DeleteByHash(ctx context.Context, hash string) error {
	return r.client.Del(ctx, r.key(hash)).Err()
}

func (r *RedisRepository) DeleteBySub(ctx context.Context, sub string) (int64, error) {
	hashes, err := r.client.SMembers(ctx, r.subKey(sub)).Result()
	if err != nil {
		return 0, err
	}
	var n int64
	if len(hashes) > 0 {
		keys := make([]string, len(hashes))
		for i, h := range hashes {
			keys[i] = r.key(h)
		}
		if n, err = r.client.Del(ctx, keys...).Result(); err != nil {
			return 0, err
		}
	}
	return n, r.client.Del(ctx, r.subKey(sub)).Err()
}
