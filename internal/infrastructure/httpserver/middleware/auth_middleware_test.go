package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/realestate-crm/internal/core/domain/auth"
	"github.com/avatarctic/realestate-crm/internal/core/domain/user"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/httpserver/helpers"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/httpserver/middleware"
	tmocks "github.com/avatarctic/realestate-crm/test/mocks"
)

func authServiceFor(u *user.User) *tmocks.AuthServiceMock {
	return &tmocks.AuthServiceMock{ResolveCurrentUserFn: func(ctx context.Context, token string) (*user.User, error) {
		if token != "good" {
			return nil, auth.ErrInvalidToken
		}
		return u, nil
	}}
}

func requireStatus(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, code, he.Code)
}

func TestRequireJWT(t *testing.T) {
	member := &user.User{ID: 7, Role: user.RoleMember}
	m := middleware.NewJWTMiddleware(authServiceFor(member), logrus.New())

	var seen *user.User
	h := m.RequireJWT()(func(c echo.Context) error {
		seen, _ = helpers.GetCurrentUserRaw(c)
		tok, _ := helpers.GetAccessTokenRaw(c)
		assert.Equal(t, "good", tok)
		return nil
	})

	tests := []struct {
		name   string
		header string
		ok     bool
	}{
		{name: "valid", header: "Bearer good", ok: true},
		{name: "lowercase scheme", header: "bearer good", ok: true},
		{name: "missing", header: ""},
		{name: "wrong scheme", header: "Basic good"},
		{name: "empty token", header: "Bearer "},
		{name: "rejected token", header: "Bearer bad"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			err := h(echo.New().NewContext(req, rec))
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, member, seen)
				return
			}
			requireStatus(t, err, http.StatusUnauthorized)
			assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
			assert.Nil(t, seen)
		})
	}
}

func TestRequireOwner(t *testing.T) {
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	owner := &user.User{ID: 1, Role: user.RoleOwner}
	m := middleware.NewJWTMiddleware(authServiceFor(owner), logrus.New())
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	helpers.SetCurrentUser(c, owner)
	require.NoError(t, m.RequireOwner()(ok)(c))

	member := &user.User{ID: 2, Role: user.RoleMember}
	c = echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	helpers.SetCurrentUser(c, member)
	err := m.RequireOwner()(ok)(c)
	requireStatus(t, err, http.StatusForbidden)
	assert.Equal(t, middleware.ForbiddenMessage, err.(*echo.HTTPError).Message)

	// without RequireJWT in front there is no user at all
	c = echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	requireStatus(t, m.RequireOwner()(ok)(c), http.StatusUnauthorized)
}
