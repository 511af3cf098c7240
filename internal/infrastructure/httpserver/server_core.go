package httpserver

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/realestate-crm/internal/core/ports"
	customMiddleware "github.com/avatarctic/realestate-crm/internal/infrastructure/httpserver/middleware"
)

type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	// ShutdownTimeout bounds how long Run waits for in-flight requests.
	ShutdownTimeout time.Duration
	TLSCertFile     string
	TLSKeyFile      string
	AllowedOrigins  []string
	Environment     string
	APIPrefix       string
	ProjectName     string
	// TrustProxy keys clients by X-Forwarded-For instead of the socket peer.
	TrustProxy      bool
	RateLimitExempt []string
	CSRF            customMiddleware.CSRFConfig
}

type ServerDeps struct {
	UserService        ports.UserService
	AuthService        ports.AuthService
	CustomerService    ports.CustomerService
	BillingService     ports.BillingService
	AnalyticsService   ports.AnalyticsService
	LookupService      ports.LookupService
	RateLimiterService ports.RateLimiterService
	HealthCheckers     []ports.HealthChecker
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	logger         *logrus.Logger
	userService    ports.UserService
	authSvc        ports.AuthService
	customerSvc    ports.CustomerService
	billingSvc     ports.BillingService
	analyticsSvc   ports.AnalyticsService
	lookupSvc      ports.LookupService
	middleware     *customMiddleware.MiddlewareCollection
	pipeline       customMiddleware.Pipeline
	healthCheckers []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		userService:    deps.UserService,
		authSvc:        deps.AuthService,
		customerSvc:    deps.CustomerService,
		billingSvc:     deps.BillingService,
		analyticsSvc:   deps.AnalyticsService,
		lookupSvc:      deps.LookupService,
		healthCheckers: deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.AuthService,
			deps.RateLimiterService,
			serverConfig.RateLimitExempt,
			serverConfig.CSRF,
			logger,
			requestsTotal,
			requestDuration,
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// Pipeline returns the governance stages in execution order.
func (s *Server) Pipeline() customMiddleware.Pipeline {
	return s.pipeline
}
