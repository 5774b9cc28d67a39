package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckReadyReportsFailingDependency(t *testing.T) {
	h := NewHealthHandler(map[string]Pinger{
		"firestore": func(ctx context.Context) error { return nil },
		"redis":     func(ctx context.Context) error { return errors.New("connection refused") },
	})

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/ready", nil), rec)
	require.NoError(t, h.CheckReady(c))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":"connection refused"`)
	assert.Contains(t, rec.Body.String(), `"firestore":"ok"`)
}

func TestGetUserIDRequiresSession(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, err := getUserID(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)

	c.Set("uid", "u1")
	id, err := getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, "u1", id)
}

func TestParseStayDate(t *testing.T) {
	d, err := parseStayDate("2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, 1, d.Day())

	_, err = parseStayDate("2025-06-01T15:00:00Z")
	require.NoError(t, err)

	_, err = parseStayDate("June 1st")
	assert.Error(t, err)
}
