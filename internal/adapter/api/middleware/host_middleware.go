package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"staynest/internal/domain/repository"
	"staynest/pkg/errors"
)

type HostMiddleware struct {
	userRepo repository.UserRepository
	now      func() time.Time
}

func NewHostMiddleware(userRepo repository.UserRepository) *HostMiddleware {
	return &HostMiddleware{
		userRepo: userRepo,
		now:      time.Now,
	}
}

// ActiveHost lets through hosts whose disable, if any, has lapsed.
func (m *HostMiddleware) ActiveHost(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, ok := c.Get("uid").(string)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
		}

		user, err := m.userRepo.GetByID(c.Request().Context(), uid)
		if err != nil {
			return err
		}
		if !user.IsHost() {
			return errors.Forbidden("Host account required", nil)
		}
		if user.IsDisabled(m.now()) {
			reason := ""
			if user.DisabledReason != nil {
				reason = *user.DisabledReason
			}
			return errors.AccountDisabled(reason)
		}

		return next(c)
	}
}
