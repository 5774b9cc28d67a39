package router

import (
	"github.com/labstack/echo/v4"

	"staynest/internal/infrastructure/ratelimit"
)

func SetupPropertyRouter(e *echo.Echo, h *Handlers, m *Middlewares) {
	properties := e.Group("/v1/properties")
	properties.GET("", h.Property.SearchProperties)
	properties.GET("/:id", h.Property.GetProperty, m.Auth.OptionalAuth)
	properties.GET("/:id/reviews", h.Review.ListReviews)
	properties.POST("/:id/reviews", h.Review.CreateReview,
		m.Auth.Authenticate, m.RateLimit.Limit(ratelimit.ActionWrite))

	host := e.Group("/v1/host")
	host.Use(m.Auth.Authenticate)
	host.Use(m.RateLimit.Limit(ratelimit.ActionDefault))

	host.GET("/properties", h.Property.ListMyProperties)
	host.GET("/drafts", h.Property.ListDrafts)
	host.GET("/drafts/:id", h.Property.GetDraft)
	host.GET("/bookings", h.Booking.ListHostBookings)

	writes := []echo.MiddlewareFunc{m.Host.ActiveHost, m.RateLimit.Limit(ratelimit.ActionWrite)}
	host.POST("/properties", h.Property.CreateProperty, writes...)
	host.POST("/drafts", h.Property.SaveDraft, writes...)
	host.PUT("/drafts/:id", h.Property.SaveDraft, writes...)
	host.DELETE("/drafts/:id", h.Property.DeleteDraft, writes...)
	host.POST("/drafts/:id/publish", h.Property.PublishDraft, writes...)

	uploads := e.Group("/v1/uploads")
	uploads.Use(m.Auth.Authenticate)
	uploads.Use(m.RateLimit.Limit(ratelimit.ActionWrite))
	uploads.POST("/images", h.Property.UploadImage)
}
