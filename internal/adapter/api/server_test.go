package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"staynest/pkg/errors"
)

type signupRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func TestValidator(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&signupRequest{Email: "a@b.co"}))
	assert.Error(t, v.Validate(&signupRequest{Email: "nope"}))
}

func TestErrorHandlerRendersEnvelope(t *testing.T) {
	e := NewEcho()
	e.GET("/boom", func(c echo.Context) error {
		return errors.InsufficientBalance()
	})
	e.GET("/denied", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is required")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"INSUFFICIENT_BALANCE"`)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/denied", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authorization header is required")

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestMetricsEndpoint(t *testing.T) {
	e := NewEcho()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "staynest_")
}
