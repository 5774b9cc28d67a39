package router

import (
	"github.com/labstack/echo/v4"

	"staynest/internal/infrastructure/ratelimit"
)

func SetupBookingRouter(e *echo.Echo, h *Handlers, m *Middlewares) {
	bookings := e.Group("/v1/bookings")
	bookings.Use(m.Auth.Authenticate)
	bookings.Use(m.RateLimit.Limit(ratelimit.ActionDefault))

	bookings.GET("", h.Booking.ListMyBookings)
	bookings.POST("", h.Booking.CreateBooking, m.RateLimit.Limit(ratelimit.ActionWrite))
}
