package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/realestate-crm/internal/infrastructure/httpserver/middleware"
)

var hex64 = regexp.MustCompile(`^[0-9a-f]{64}$`)

func newCSRF(exempt ...string) echo.HandlerFunc {
	m := middleware.NewCSRFMiddleware(middleware.CSRFConfig{
		HeaderName:   "X-CSRF-Token",
		CookieName:   "csrf_token",
		CookieSecure: true,
		ExemptPaths:  exempt,
	}, logrus.New())
	return m.Handler()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
}

func runCSRF(t *testing.T, h echo.HandlerFunc, req *http.Request) (*httptest.ResponseRecorder, error) {
	t.Helper()
	rec := httptest.NewRecorder()
	err := h(echo.New().NewContext(req, rec))
	return rec, err
}

func requireForbidden(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Code)
	assert.Equal(t, middleware.CSRFMessage, he.Message)
}

func TestCSRF_GetWithoutCookieIssuesToken(t *testing.T) {
	rec, err := runCSRF(t, newCSRF(), httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "csrf_token", c.Name)
	assert.Regexp(t, hex64, c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
}

func TestCSRF_GetWithCookieDoesNotReissue(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: strings.Repeat("a", 64)})

	rec, err := runCSRF(t, newCSRF(), req)
	require.NoError(t, err)
	assert.Empty(t, rec.Result().Cookies())
}

func TestCSRF_HeadAndOptionsPassWithoutCookie(t *testing.T) {
	for _, method := range []string{http.MethodHead, http.MethodOptions} {
		rec, err := runCSRF(t, newCSRF(), httptest.NewRequest(method, "/api/v1/customers", nil))
		require.NoError(t, err, method)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Result().Cookies(), method)
	}
}

func TestCSRF_UnsafeRequests(t *testing.T) {
	token := strings.Repeat("ab", 32)
	tests := []struct {
		name    string
		method  string
		cookie  string
		header  string
		allowed bool
	}{
		{name: "matching pair", method: http.MethodPost, cookie: token, header: token, allowed: true},
		{name: "put matching pair", method: http.MethodPut, cookie: token, header: token, allowed: true},
		{name: "missing header", method: http.MethodPost, cookie: token},
		{name: "missing cookie", method: http.MethodDelete, header: token},
		{name: "missing both", method: http.MethodPatch},
		{name: "mismatch", method: http.MethodPost, cookie: token, header: strings.Repeat("cd", 32)},
		{name: "prefix of cookie", method: http.MethodPost, cookie: token, header: token[:32]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/customers", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "csrf_token", Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("X-CSRF-Token", tt.header)
			}
			rec, err := runCSRF(t, newCSRF(), req)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)
				return
			}
			requireForbidden(t, err)
		})
	}
}

func TestCSRF_ExemptPrefixSkipsCheck(t *testing.T) {
	h := newCSRF("/api/v1/auth/login")

	_, err := runCSRF(t, h, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))
	require.NoError(t, err)

	// prefix match covers sub paths
	_, err = runCSRF(t, h, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login/json", nil))
	require.NoError(t, err)

	_, err = runCSRF(t, h, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))
	requireForbidden(t, err)
}

func TestCSRF_IssuedTokenRoundTrips(t *testing.T) {
	h := newCSRF()
	rec, err := runCSRF(t, h, httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil))
	require.NoError(t, err)
	issued := rec.Result().Cookies()[0].Value

	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers", nil)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: issued})
	req.Header.Set("X-CSRF-Token", issued)
	_, err = runCSRF(t, h, req)
	require.NoError(t, err)
}

func TestGenerateCSRFToken_IsRandomHex(t *testing.T) {
	a, err := middleware.GenerateCSRFToken()
	require.NoError(t, err)
	b, err := middleware.GenerateCSRFToken()
	require.NoError(t, err)
	assert.Regexp(t, hex64, a)
	assert.NotEqual(t, a, b)
}
