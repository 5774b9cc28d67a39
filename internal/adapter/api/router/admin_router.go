package router

import (
	"github.com/labstack/echo/v4"
)

func SetupAdminRouter(e *echo.Echo, h *Handlers, m *Middlewares) {
	admin := e.Group("/v1/admin")
	admin.Use(m.Auth.Authenticate)
	admin.Use(m.Admin.AdminOnly)

	admin.GET("/hosts", h.Admin.ListHosts)
	admin.GET("/hosts/:id", h.Admin.GetHost)
	admin.POST("/hosts/:id/revoke", h.Admin.RevokeSubscription)
	admin.POST("/hosts/:id/restore", h.Admin.RestoreSubscription)
	admin.POST("/hosts/:id/disable", h.Admin.DisableHost)
	admin.POST("/hosts/:id/enable", h.Admin.EnableHost)

	admin.POST("/reconcile", h.Admin.Reconcile)
}
