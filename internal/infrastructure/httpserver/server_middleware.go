package httpserver

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func (s *Server) setupMiddleware() {
	s.echo.HTTPErrorHandler = s.httpErrorHandler
	s.echo.Validator = newRequestValidator()

	if s.config.TrustProxy {
		s.echo.IPExtractor = echo.ExtractIPFromXFFHeader()
	} else {
		s.echo.IPExtractor = echo.ExtractIPDirect()
	}

	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	s.echo.Use(s.middleware.Logging.RequestLogging())
	s.echo.Use(s.middleware.Metrics.Handler())

	// CORS -> rate limit -> CSRF, then route dispatch
	s.pipeline = s.middleware.Governance(s.config.AllowedOrigins)
	s.pipeline.Apply(s.echo)
}
