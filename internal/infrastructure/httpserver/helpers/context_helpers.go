package helpers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/realestate-crm/internal/core/domain/user"
)

// CredentialsMessage is the detail of every 401 raised for a bad or missing bearer token.
const CredentialsMessage = "Could not validate credentials"

// Unauthorized builds the 401 rejection with the bearer challenge header.
func Unauthorized(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, CredentialsMessage)
}

func GetBearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", Unauthorized(c)
	}
	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", Unauthorized(c)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", Unauthorized(c)
	}
	return token, nil
}

// GetCurrentUserFromContext returns the acting user set by the auth middleware
func GetCurrentUserFromContext(c echo.Context) (*user.User, error) {
	u, ok := GetCurrentUserRaw(c)
	if !ok || u == nil {
		return nil, Unauthorized(c)
	}
	return u, nil
}

// GetAccessTokenFromContext returns the raw bearer token accepted by the auth middleware
func GetAccessTokenFromContext(c echo.Context) (string, error) {
	t, ok := GetAccessTokenRaw(c)
	if !ok || t == "" {
		return GetBearerToken(c)
	}
	return t, nil
}
