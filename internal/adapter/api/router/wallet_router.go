package router

import (
	"github.com/labstack/echo/v4"

	"staynest/internal/infrastructure/ratelimit"
)

func SetupWalletRouter(e *echo.Echo, h *Handlers, m *Middlewares) {
	wallet := e.Group("/v1/wallet")
	wallet.Use(m.Auth.Authenticate)
	wallet.Use(m.RateLimit.Limit(ratelimit.ActionDefault))

	wallet.GET("", h.Wallet.GetWallet)
	wallet.GET("/transactions", h.Wallet.ListTransactions)
	wallet.POST("/topup", h.Wallet.TopUp, m.RateLimit.Limit(ratelimit.ActionWallet))
	wallet.POST("/withdraw", h.Wallet.Withdraw, m.RateLimit.Limit(ratelimit.ActionWallet))
}
