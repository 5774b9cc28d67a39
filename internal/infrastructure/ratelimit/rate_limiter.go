package ratelimit

import (
	"context"
	"time"
)

const (
	ActionDefault = "default"
	ActionWallet  = "wallet"
	ActionWrite   = "write"
)

// Rule allows Limit requests per fixed Window.
type Rule struct {
	Limit  int
	Window time.Duration
}

type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Store counts hits in a fixed window. The first hit of a window starts its
// expiry; the count resets once the window has passed.
type Store interface {
	Increment(ctx context.Context, key string, window time.Duration) (count int64, resetIn time.Duration, err error)
}

// RateLimiter applies per-action rules to a subject (user id or client IP).
type RateLimiter struct {
	store    Store
	rules    map[string]Rule
	fallback Rule
}

func NewRateLimiter(store Store, fallback Rule) *RateLimiter {
	return &RateLimiter{
		store:    store,
		rules:    make(map[string]Rule),
		fallback: fallback,
	}
}

// WithRule overrides the fallback rule for one action.
func (rl *RateLimiter) WithRule(action string, rule Rule) *RateLimiter {
	rl.rules[action] = rule
	return rl
}

func (rl *RateLimiter) rule(action string) Rule {
	if r, ok := rl.rules[action]; ok {
		return r
	}
	return rl.fallback
}

func (rl *RateLimiter) Allow(ctx context.Context, subject, action string) (Decision, error) {
	rule := rl.rule(action)
	count, resetIn, err := rl.store.Increment(ctx, "ratelimit:"+action+":"+subject, rule.Window)
	if err != nil {
		return Decision{Allowed: true, Limit: rule.Limit}, err
	}

	if count > int64(rule.Limit) {
		return Decision{Allowed: false, Limit: rule.Limit, RetryAfter: resetIn}, nil
	}
	return Decision{Allowed: true, Limit: rule.Limit, Remaining: rule.Limit - int(count)}, nil
}
