package router

import (
	"github.com/labstack/echo/v4"
)

func SetupHealthRouter(e *echo.Echo, h *Handlers) {
	e.GET("/health", h.Health.CheckHealth)
	e.GET("/ready", h.Health.CheckReady)
}
