package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/realestate-crm/internal/core/domain/ratelimit"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/httpserver/helpers"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/httpserver/middleware"
	tmocks "github.com/avatarctic/realestate-crm/test/mocks"
)

func rateLimited(limiter *tmocks.RateLimiterServiceMock, exempt ...string) echo.HandlerFunc {
	m := middleware.NewRateLimitMiddleware(limiter, exempt, logrus.New())
	return m.Handler()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
}

func TestRateLimitMiddleware_RejectsWith429(t *testing.T) {
	limiter := &tmocks.RateLimiterServiceMock{AdmitFn: func(ctx context.Context, clientID string) (ratelimit.Decision, error) {
		return ratelimit.Rejected, nil
	}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
	req.RemoteAddr = "203.0.113.7:5555"
	rec := httptest.NewRecorder()

	err := rateLimited(limiter)(echo.New().NewContext(req, rec))
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, he.Code)
	assert.Equal(t, "Rate limit exceeded. Please try again later.", he.Message)
	assert.Equal(t, []string{"203.0.113.7"}, limiter.Clients)
}

func TestRateLimitMiddleware_ExemptPathsBypassLimiter(t *testing.T) {
	limiter := &tmocks.RateLimiterServiceMock{AdmitFn: func(ctx context.Context, clientID string) (ratelimit.Decision, error) {
		return ratelimit.Rejected, nil
	}}
	h := rateLimited(limiter, "/healthz", "/docs")

	for _, path := range []string{"/healthz", "/docs/index"} {
		rec := httptest.NewRecorder()
		require.NoError(t, h(echo.New().NewContext(httptest.NewRequest(http.MethodGet, path, nil), rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Empty(t, limiter.Clients)
}

func TestRateLimitMiddleware_StoresClientID(t *testing.T) {
	limiter := &tmocks.RateLimiterServiceMock{}
	m := middleware.NewRateLimitMiddleware(limiter, nil, nil)
	var got string
	h := m.Handler()(func(c echo.Context) error {
		got, _ = helpers.GetClientIDRaw(c)
		return nil
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.1:1234"
	require.NoError(t, h(echo.New().NewContext(req, httptest.NewRecorder())))
	assert.Equal(t, "198.51.100.1", got)
}

func TestRateLimitMiddleware_TrustsForwardedForOnlyWhenConfigured(t *testing.T) {
	limiter := &tmocks.RateLimiterServiceMock{}
	h := rateLimited(limiter)

	direct := echo.New()
	direct.IPExtractor = echo.ExtractIPDirect()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.5:1000"
	req.Header.Set(echo.HeaderXForwardedFor, "203.0.113.9")
	require.NoError(t, h(direct.NewContext(req, httptest.NewRecorder())))

	proxied := echo.New()
	proxied.IPExtractor = echo.ExtractIPFromXFFHeader()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.5:1000"
	req.Header.Set(echo.HeaderXForwardedFor, "203.0.113.9")
	require.NoError(t, h(proxied.NewContext(req, httptest.NewRecorder())))

	assert.Equal(t, []string{"10.0.0.5", "203.0.113.9"}, limiter.Clients)
}

func TestRateLimitMiddleware_LimiterErrorFailsOpen(t *testing.T) {
	limiter := &tmocks.RateLimiterServiceMock{AdmitFn: func(ctx context.Context, clientID string) (ratelimit.Decision, error) {
		return ratelimit.Allowed, errors.New("store unavailable")
	}}
	logger, hook := logtest.NewNullLogger()
	h := middleware.NewRateLimitMiddleware(limiter, nil, logger).Handler()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	require.NoError(t, h(echo.New().NewContext(httptest.NewRequest(http.MethodPost, "/x", nil), rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, hook.AllEntries(), "store failures are logged by the limiter service")
}
