package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/realestate-crm/internal/core/domain/ratelimit"
	"github.com/avatarctic/realestate-crm/internal/core/ports"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/httpserver/helpers"
)

const RateLimitMessage = "Rate limit exceeded. Please try again later."

type RateLimitMiddleware struct {
	rateLimiter ports.RateLimiterService
	exemptPaths []string
	logger      *logrus.Logger
}

func NewRateLimitMiddleware(rateLimiter ports.RateLimiterService, exemptPaths []string, logger *logrus.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{rateLimiter: rateLimiter, exemptPaths: exemptPaths, logger: logger}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Handler keys clients by c.RealIP, so the server's IPExtractor decides whether
// proxy headers are trusted. An empty address falls into the shared "unknown" bucket.
func (r *RateLimitMiddleware) Handler() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if hasAnyPrefix(c.Request().URL.Path, r.exemptPaths) {
				return next(c)
			}

			clientID := c.RealIP()
			if clientID == "" {
				clientID = ratelimit.UnknownClient
			}
			helpers.SetClientID(c, clientID)

			decision, err := r.rateLimiter.Admit(c.Request().Context(), clientID)
			if err != nil {
				// the limiter has logged the store failure; fail open
				return next(c)
			}

			if decision == ratelimit.Rejected {
				if r.logger != nil {
					r.logger.WithFields(logrus.Fields{
						"client_id": clientID,
						"method":    c.Request().Method,
						"path":      c.Request().URL.Path,
					}).Warn("rate limit exceeded")
				}
				return echo.NewHTTPError(http.StatusTooManyRequests, RateLimitMessage)
			}
			return next(c)
		}
	}
}
