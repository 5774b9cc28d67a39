package router

import (
	"github.com/labstack/echo/v4"
)

func SetupWebSocketRouter(e *echo.Echo, h *Handlers, m *Middlewares) {
	e.GET("/v1/ws", h.WebSocket.HandleConnection, m.Auth.AuthenticateQuery)
}
