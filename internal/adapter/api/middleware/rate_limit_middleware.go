package middleware

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"staynest/internal/infrastructure/ratelimit"
	"staynest/pkg/errors"
	"staynest/pkg/logger"
)

type RateLimitMiddleware struct {
	limiter *ratelimit.RateLimiter
}

func NewRateLimitMiddleware(limiter *ratelimit.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
	}
}

// Limit counts requests per user, or per client IP before authentication.
// A failing store lets the request through.
func (m *RateLimitMiddleware) Limit(action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			subject := c.RealIP()
			if uid, ok := c.Get("uid").(string); ok && uid != "" {
				subject = uid
			}

			decision, err := m.limiter.Allow(c.Request().Context(), subject, action)
			if err != nil {
				logger.FromEcho(c).Warn("rate limit store unavailable", zap.String("action", action), zap.Error(err))
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
			if !decision.Allowed {
				h.Set("Retry-After", strconv.Itoa(int(math.Ceil(decision.RetryAfter.Seconds()))))
				h.Set("X-RateLimit-Remaining", "0")
				return errors.TooManyRequests("Rate limit exceeded, please retry later")
			}
			h.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			return next(c)
		}
	}
}
