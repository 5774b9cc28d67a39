package router

import (
	"github.com/labstack/echo/v4"

	"staynest/internal/infrastructure/ratelimit"
)

func SetupUserRouter(e *echo.Echo, h *Handlers, m *Middlewares) {
	users := e.Group("/v1/users")
	users.Use(m.Auth.Authenticate)
	users.Use(m.RateLimit.Limit(ratelimit.ActionDefault))

	users.GET("/me", h.User.GetProfile)
	users.POST("/me", h.User.SaveProfile, m.RateLimit.Limit(ratelimit.ActionWrite))
}
