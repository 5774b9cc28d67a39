package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"staynest/internal/infrastructure/metrics"
	"staynest/pkg/logger"
	"staynest/pkg/response"
)

// NewEcho builds the HTTP server with the middleware every route shares.
func NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(metrics.Middleware())
	e.Use(logger.Middleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/metrics", metrics.Handler())
	return e
}

// ErrorHandler renders errors returned by handlers and middleware in the
// response envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if rerr := response.Error(c, err); rerr != nil {
		logger.FromEcho(c).Error("failed to write error response")
	}
}
