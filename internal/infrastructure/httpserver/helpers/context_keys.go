package helpers

import (
	"github.com/labstack/echo/v4"

	"github.com/avatarctic/realestate-crm/internal/core/domain/user"
)

type ctxKey string

const (
	keyCurrentUser ctxKey = "current_user"
	keyAccessToken ctxKey = "access_token"
	keyClientID    ctxKey = "client_id"
)

func SetCurrentUser(c echo.Context, u *user.User) { c.Set(string(keyCurrentUser), u) }
func GetCurrentUserRaw(c echo.Context) (*user.User, bool) {
	v := c.Get(string(keyCurrentUser))
	u, ok := v.(*user.User)
	return u, ok
}

func SetAccessToken(c echo.Context, token string) { c.Set(string(keyAccessToken), token) }
func GetAccessTokenRaw(c echo.Context) (string, bool) {
	v := c.Get(string(keyAccessToken))
	s, ok := v.(string)
	return s, ok
}

// SetClientID records the rate limit identity resolved for the request.
func SetClientID(c echo.Context, id string) { c.Set(string(keyClientID), id) }
func GetClientIDRaw(c echo.Context) (string, bool) {
	v := c.Get(string(keyClientID))
	s, ok := v.(string)
	return s, ok
}
