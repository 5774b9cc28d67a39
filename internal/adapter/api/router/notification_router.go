package router

import (
	"github.com/labstack/echo/v4"

	"staynest/internal/infrastructure/ratelimit"
)

func SetupNotificationRouter(e *echo.Echo, h *Handlers, m *Middlewares) {
	notifications := e.Group("/v1/notifications")
	notifications.Use(m.Auth.Authenticate)
	notifications.Use(m.RateLimit.Limit(ratelimit.ActionDefault))

	notifications.GET("", h.Notification.ListNotifications)
	notifications.POST("/read-all", h.Notification.MarkAllRead)
	notifications.POST("/:id/read", h.Notification.MarkRead)
}
