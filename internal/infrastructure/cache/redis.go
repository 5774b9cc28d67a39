package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"staynest/internal/domain/entity"
	"staynest/pkg/logger"
)

const (
	keySubscription = "staynest:subscription:"
	subscriptionTTL = 5 * time.Minute
)

// NewRedisClient connects to REDIS_URL and pings it before returning.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Get().Info("connected to redis", zap.String("addr", opts.Addr))
	return client, nil
}

// SubscriptionCache keeps effective subscriptions in Redis as JSON. Redis
// errors degrade to a cache miss; the user document stays authoritative.
type SubscriptionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSubscriptionCache(client *redis.Client) *SubscriptionCache {
	return &SubscriptionCache{client: client, ttl: subscriptionTTL}
}

func subscriptionKey(userID string) string {
	return keySubscription + userID
}

func (c *SubscriptionCache) Get(ctx context.Context, userID string) (*entity.Subscription, bool) {
	data, err := c.client.Get(ctx, subscriptionKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.FromContext(ctx).Warn("subscription cache read failed", zap.String("user_id", userID), zap.Error(err))
		return nil, false
	}

	var sub entity.Subscription
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, false
	}
	return &sub, true
}

func (c *SubscriptionCache) Set(ctx context.Context, userID string, sub *entity.Subscription) {
	data, err := json.Marshal(sub)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, subscriptionKey(userID), data, c.ttl).Err(); err != nil {
		logger.FromContext(ctx).Warn("subscription cache write failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func (c *SubscriptionCache) Invalidate(ctx context.Context, userID string) {
	if err := c.client.Del(ctx, subscriptionKey(userID)).Err(); err != nil {
		logger.FromContext(ctx).Warn("subscription cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}
