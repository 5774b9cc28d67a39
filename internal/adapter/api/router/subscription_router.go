package router

import (
	"github.com/labstack/echo/v4"

	"staynest/internal/infrastructure/ratelimit"
)

func SetupSubscriptionRouter(e *echo.Echo, h *Handlers, m *Middlewares) {
	e.GET("/v1/plans", h.Subscription.ListPlans)

	subscription := e.Group("/v1/subscription")
	subscription.Use(m.Auth.Authenticate)
	subscription.Use(m.RateLimit.Limit(ratelimit.ActionDefault))

	subscription.GET("", h.Subscription.GetSubscription)
	subscription.POST("", h.Subscription.Subscribe, m.RateLimit.Limit(ratelimit.ActionWrite))
	subscription.POST("/cancel", h.Subscription.Cancel, m.RateLimit.Limit(ratelimit.ActionWrite))
}
