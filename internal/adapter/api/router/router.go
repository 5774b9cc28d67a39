package router

import (
	"github.com/labstack/echo/v4"

	"staynest/internal/adapter/api/handler"
	"staynest/internal/adapter/api/middleware"
)

type Middlewares struct {
	Auth      *middleware.AuthMiddleware
	Admin     *middleware.AdminMiddleware
	Host      *middleware.HostMiddleware
	RateLimit *middleware.RateLimitMiddleware
}

type Handlers struct {
	Health       *handler.HealthHandler
	User         *handler.UserHandler
	Subscription *handler.SubscriptionHandler
	Admin        *handler.AdminHandler
	Wallet       *handler.WalletHandler
	Property     *handler.PropertyHandler
	Booking      *handler.BookingHandler
	Review       *handler.ReviewHandler
	Notification *handler.NotificationHandler
	WebSocket    *handler.WebSocketHandler
}

func Setup(e *echo.Echo, h *Handlers, m *Middlewares) {
	SetupHealthRouter(e, h)
	SetupUserRouter(e, h, m)
	SetupSubscriptionRouter(e, h, m)
	SetupAdminRouter(e, h, m)
	SetupWalletRouter(e, h, m)
	SetupPropertyRouter(e, h, m)
	SetupBookingRouter(e, h, m)
	SetupNotificationRouter(e, h, m)
	SetupWebSocketRouter(e, h, m)
}
