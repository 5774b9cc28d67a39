package cache

import (
	"context"

	"staynest/internal/domain/entity"
)

// Noop is used when REDIS_URL is unset. Every read misses.
type Noop struct{}

func (Noop) Get(ctx context.Context, userID string) (*entity.Subscription, bool) {
	return nil, false
}

func (Noop) Set(ctx context.Context, userID string, sub *entity.Subscription) {}

func (Noop) Invalidate(ctx context.Context, userID string) {}
