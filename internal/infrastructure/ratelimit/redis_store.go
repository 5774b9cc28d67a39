package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares windows between API instances with INCR and EXPIRE.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Increment(ctx context.Context, key string, ttl time.Duration) (int64, time.Duration, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if count == 1 {
		if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
			return count, ttl, err
		}
		return count, ttl, nil
	}

	resetIn, err := s.client.PTTL(ctx, key).Result()
	if err != nil {
		return count, ttl, err
	}
	// A key left without expiry would block the subject forever.
	if resetIn < 0 {
		if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
			return count, ttl, err
		}
		resetIn = ttl
	}
	return count, resetIn, nil
}
