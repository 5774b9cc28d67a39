package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"staynest/internal/infrastructure/firebase"
)

type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*firebase.Token, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

// Authenticate verifies the bearer ID token and stores uid, email and
// email_verified in the echo context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is required")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
		}

		return m.verify(c, next, parts[1])
	}
}

// AuthenticateQuery reads the token from ?token= for websocket upgrades,
// where browsers cannot set headers.
func (m *AuthMiddleware) AuthenticateQuery(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := c.QueryParam("token")
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Token is required")
		}
		return m.verify(c, next, token)
	}
}

func (m *AuthMiddleware) verify(c echo.Context, next echo.HandlerFunc, idToken string) error {
	token, err := m.verifier.VerifyToken(c.Request().Context(), idToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}

	c.Set("uid", token.UID)
	c.Set("email", token.Email)
	c.Set("email_verified", token.EmailVerified)
	return next(c)
}

// OptionalAuth identifies the caller when a valid bearer token is present and
// serves the request anonymously otherwise.
func (m *AuthMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		parts := strings.Split(c.Request().Header.Get("Authorization"), " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return next(c)
		}
		token, err := m.verifier.VerifyToken(c.Request().Context(), parts[1])
		if err != nil {
			return next(c)
		}
		c.Set("uid", token.UID)
		c.Set("email", token.Email)
		c.Set("email_verified", token.EmailVerified)
		return next(c)
	}
}
