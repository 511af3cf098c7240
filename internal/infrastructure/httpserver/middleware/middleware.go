package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/realestate-crm/internal/core/ports"
)

// MiddlewareCollection holds all middleware instances
type MiddlewareCollection struct {
	JWT       *JWTMiddleware
	Logging   *LoggingMiddleware
	RateLimit *RateLimitMiddleware
	CSRF      *CSRFMiddleware
	Metrics   *MetricsMiddleware
}

// NewMiddlewareCollection creates a new collection of all middleware
func NewMiddlewareCollection(
	authService ports.AuthService,
	rateLimiterService ports.RateLimiterService,
	rateLimitExempt []string,
	csrfConfig CSRFConfig,
	logger *logrus.Logger,
	requestsTotal *prometheus.CounterVec,
	requestDuration *prometheus.HistogramVec,
) *MiddlewareCollection {
	return &MiddlewareCollection{
		JWT:       NewJWTMiddleware(authService, logger),
		Logging:   NewLoggingMiddleware(logger),
		RateLimit: NewRateLimitMiddleware(rateLimiterService, rateLimitExempt, logger),
		CSRF:      NewCSRFMiddleware(csrfConfig, logger),
		Metrics:   NewMetricsMiddleware(requestsTotal, requestDuration),
	}
}

// Governance returns the CORS -> rate limit -> CSRF pipeline.
func (mc *MiddlewareCollection) Governance(allowedOrigins []string) Pipeline {
	return NewPipeline(CORS(allowedOrigins, mc.CSRF.HeaderName()), mc.RateLimit.Handler(), mc.CSRF.Handler())
}
