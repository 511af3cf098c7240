package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/realestate-crm/internal/core/ports"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/httpserver/helpers"
)

const ForbiddenMessage = "The user doesn't have enough privileges"

type JWTMiddleware struct {
	authService ports.AuthService
	logger      *logrus.Logger
}

func NewJWTMiddleware(authService ports.AuthService, logger *logrus.Logger) *JWTMiddleware {
	return &JWTMiddleware{authService: authService, logger: logger}
}

// RequireJWT resolves the bearer token to the current user and stores both on the context.
func (m *JWTMiddleware) RequireJWT() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := helpers.GetBearerToken(c)
			if err != nil {
				return err
			}

			u, err := m.authService.ResolveCurrentUser(c.Request().Context(), tokenString)
			if err != nil {
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{"ip": c.RealIP(), "path": c.Request().URL.Path}).WithError(err).Warn("JWT validation failed")
				}
				return helpers.Unauthorized(c)
			}

			helpers.SetCurrentUser(c, u)
			helpers.SetAccessToken(c, tokenString)

			if m.logger != nil {
				m.logger.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Debug("jwt validated and user context set")
			}
			return next(c)
		}
	}
}

// RequireOwner must run after RequireJWT.
func (m *JWTMiddleware) RequireOwner() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, err := helpers.GetCurrentUserFromContext(c)
			if err != nil {
				return err
			}
			if _, err := m.authService.RequireOwner(u); err != nil {
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{"user_id": u.ID, "path": c.Request().URL.Path}).Warn("owner role required")
				}
				return echo.NewHTTPError(http.StatusForbidden, ForbiddenMessage)
			}
			return next(c)
		}
	}
}
