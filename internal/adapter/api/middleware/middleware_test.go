package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staynest/internal/adapter/repository"
	"staynest/internal/domain/entity"
	"staynest/internal/infrastructure/firebase"
	"staynest/internal/infrastructure/ratelimit"
	"staynest/pkg/errors"
)

func ok(c echo.Context) error {
	return c.String(http.StatusOK, c.Get("uid").(string))
}

func TestAuthenticate(t *testing.T) {
	e := echo.New()
	auth := NewAuthMiddleware(firebase.DevVerifier{})
	h := auth.Authenticate(ok)

	cases := map[string]struct {
		header string
		code   int
	}{
		"missing header": {"", http.StatusUnauthorized},
		"wrong scheme":   {"Basic abc", http.StatusUnauthorized},
		"bad token":      {"Bearer forged", http.StatusUnauthorized},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			err := h(e.NewContext(req, httptest.NewRecorder()))
			var he *echo.HTTPError
			require.ErrorAs(t, err, &he)
			assert.Equal(t, tc.code, he.Code)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+firebase.DevToken("u1", "u1@example.com"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h(c))
	assert.Equal(t, "u1", rec.Body.String())
	assert.Equal(t, "u1@example.com", c.Get("email"))
}

func TestOptionalAuth(t *testing.T) {
	e := echo.New()
	auth := NewAuthMiddleware(firebase.DevVerifier{})
	h := auth.OptionalAuth(func(c echo.Context) error {
		uid, _ := c.Get("uid").(string)
		return c.String(http.StatusOK, "viewer="+uid)
	})

	cases := []struct {
		header string
		want   string
	}{
		{"", "viewer="},
		{"Bearer forged", "viewer="},
		{"Bearer " + firebase.DevToken("h1", ""), "viewer=h1"},
	}
	for _, tc := range cases {
		header, want := tc.header, tc.want
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		require.NoError(t, h(e.NewContext(req, rec)))
		assert.Equal(t, want, rec.Body.String())
	}
}

func TestAuthenticateQuery(t *testing.T) {
	e := echo.New()
	h := NewAuthMiddleware(firebase.DevVerifier{}).AuthenticateQuery(ok)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/ws?token="+firebase.DevToken("u9", ""), nil)
	require.NoError(t, h(e.NewContext(req, rec)))
	assert.Equal(t, "u9", rec.Body.String())

	err := h(e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/ws", nil), httptest.NewRecorder()))
	assert.Error(t, err)
}

func seedUsers(t *testing.T) *repository.MemoryStore {
	store := repository.NewMemoryStore()
	reason := "Subscription revoked"
	until := time.Now().Add(7 * 24 * time.Hour)
	for _, u := range []*entity.User{
		{ID: "admin", UserType: entity.UserTypeAdmin},
		{ID: "flagged", UserType: entity.UserTypeHost, IsAdmin: true},
		{ID: "host", UserType: entity.UserTypeHost},
		{ID: "guest", UserType: entity.UserTypeGuest},
		{ID: "disabled", UserType: entity.UserTypeHost, Disabled: true, DisabledUntil: &until, DisabledReason: &reason},
	} {
		require.NoError(t, store.Users().Create(context.Background(), u))
	}
	return store
}

func withUID(e *echo.Echo, uid string) echo.Context {
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set("uid", uid)
	return c
}

func TestAdminOnly(t *testing.T) {
	e := echo.New()
	h := NewAdminMiddleware(seedUsers(t).Users()).AdminOnly(ok)

	assert.NoError(t, h(withUID(e, "admin")))
	assert.NoError(t, h(withUID(e, "flagged")))

	var he *echo.HTTPError
	require.ErrorAs(t, h(withUID(e, "host")), &he)
	assert.Equal(t, http.StatusForbidden, he.Code)
	require.ErrorAs(t, h(withUID(e, "ghost")), &he)
	assert.Equal(t, http.StatusForbidden, he.Code)
}

func TestActiveHost(t *testing.T) {
	e := echo.New()
	h := NewHostMiddleware(seedUsers(t).Users()).ActiveHost(ok)

	assert.NoError(t, h(withUID(e, "host")))

	err := h(withUID(e, "disabled"))
	assert.True(t, errors.Is(err, errors.CodeAccountDisabled))
	assert.Contains(t, err.Error(), "Subscription revoked")

	assert.True(t, errors.Is(h(withUID(e, "guest")), "FORBIDDEN"))
}

func TestActiveHostAfterDisableLapses(t *testing.T) {
	e := echo.New()
	m := NewHostMiddleware(seedUsers(t).Users())
	m.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }

	assert.NoError(t, m.ActiveHost(ok)(withUID(e, "disabled")))
}

func TestRateLimit(t *testing.T) {
	e := echo.New()
	limiter := ratelimit.NewRateLimiter(ratelimit.NewMemoryStore(), ratelimit.Rule{Limit: 2, Window: time.Minute})
	h := NewRateLimitMiddleware(limiter).Limit(ratelimit.ActionWallet)(ok)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
		c.Set("uid", "u1")
		require.NoError(t, h(c))
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	c.Set("uid", "u1")
	err := h(c)
	assert.True(t, errors.Is(err, errors.CodeTooManyRequests))
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	other := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())
	other.Set("uid", "u2")
	assert.NoError(t, h(other))
}
