package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	config "github.com/avatarctic/realestate-crm/configs"
	"github.com/avatarctic/realestate-crm/internal/application/services"
	"github.com/avatarctic/realestate-crm/internal/core/ports"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/db"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/email"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/external"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/health"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/httpserver"
	customMiddleware "github.com/avatarctic/realestate-crm/internal/infrastructure/httpserver/middleware"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/redis"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/repositories"
)

const (
	userCacheTTL       = 3 * time.Minute
	tokenPurgeInterval = time.Hour
)

var skipMigrations bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server with graceful shutdown.

SIGINT or SIGTERM stops accepting requests, drains in-flight ones for up to
SHUTDOWN_TIMEOUT, then stops the rate limiter sweep.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	for _, c := range []*cobra.Command{rootCmd, serveCmd} {
		c.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on startup")
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"project":     cfg.Server.ProjectName,
		"environment": cfg.Server.Environment,
	}).Info("Starting real estate CRM...")

	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()
	logger.Info("Connected to database successfully")

	if !skipMigrations {
		if err := database.Migrate(cfg.Database.MigrationsPath); err != nil {
			logger.WithError(err).Warn("Failed to run migrations")
		}
	}

	redisClient, err := redis.Connect(cmd.Context(), &cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	} else {
		logger.Warn("Redis disabled; using database token stores and in-process caches only")
	}

	userRepo := repositories.NewUserRepository(database, logger)
	customerRepo := repositories.NewCustomerRepository(database, logger)
	activityRepo := repositories.NewActivityRepository(database, logger)
	billingRepo := repositories.NewBillingRepository(database, logger)
	registryRepo := repositories.NewRegistryRepository(database, logger)
	analyticsRepo := repositories.NewAnalyticsRepository(database, logger)
	dbTokenRepo := repositories.NewTokenDBRepository(database, logger)

	var (
		tokenRepo ports.TokenRepository
		resetRepo ports.ResetTokenRepository
	)
	if redisClient != nil {
		userRepo = repositories.NewCachingUserRepository(userRepo, redis.NewCache(redisClient, redis.UserCacheNamespace), userCacheTTL)
		tokenRepo = repositories.NewTokenRedisRepository(redisClient, logger)
		resetRepo = repositories.NewResetTokenRedisRepository(redisClient, logger)
	} else {
		tokenRepo = dbTokenRepo
		resetRepo = repositories.NewResetTokenDBRepository(database, logger)
	}

	emailService, err := email.NewEmailService(&cfg.Email, cfg.Server.ProjectName, logger)
	if err != nil {
		return fmt.Errorf("initialize email service: %w", err)
	}

	userService := services.NewUserService(userRepo, logger)
	authService := services.NewAuthService(userRepo, tokenRepo, resetRepo, emailService, &cfg.JWT, &cfg.Email, logger)
	customerService := services.NewCustomerService(customerRepo, activityRepo, logger)
	billingService := services.NewBillingService(billingRepo, userRepo, logger)
	analyticsService := services.NewAnalyticsService(analyticsRepo, nil, logger)
	lookupService := services.NewLookupService(
		external.NewPostalCodeClient(cfg.Lookup.PostalInterval, logger),
		external.NewPhoneNumberClient(cfg.Lookup.PhoneInterval, logger),
		external.NewRegistryClient(cfg.Lookup.RegistryUsername, cfg.Lookup.RegistryInterval, logger),
		registryRepo,
		logger,
	)

	rateLimiter := services.NewRateLimiterService(newRateLimitStore(cfg, redisClient), &services.RateLimiterConfig{
		RequestsPerWindow: cfg.RateLimit.RequestsPerWindow,
		Window:            cfg.RateLimit.Window,
	}, logger)

	checkers := []ports.HealthChecker{
		health.NewDBHealthChecker(database),
		health.NewRateLimiterHealthChecker(rateLimiter),
	}
	if redisClient != nil {
		checkers = append(checkers, health.NewRedisHealthChecker(redisClient))
	}

	server := httpserver.NewServer(newServerConfig(cfg), logger, httpserver.ServerDeps{
		UserService:        userService,
		AuthService:        authService,
		CustomerService:    customerService,
		BillingService:     billingService,
		AnalyticsService:   analyticsService,
		LookupService:      lookupService,
		RateLimiterService: rateLimiter,
		HealthCheckers:     checkers,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rateLimiter.Start(ctx)
	defer rateLimiter.Stop()

	if redisClient == nil {
		go purgeExpiredTokens(ctx, dbTokenRepo, logger)
	}

	if err := server.Run(ctx); err != nil {
		logger.WithError(err).Error("HTTP server stopped with error")
		return err
	}
	logger.Info("HTTP server stopped gracefully")
	return nil
}

func newRateLimitStore(cfg *config.Config, client *goredis.Client) ports.RateLimitStore {
	if cfg.RateLimit.Backend == config.RateLimitBackendRedis && client != nil {
		return repositories.NewRateLimitRedisRepository(client, cfg.RateLimit.KeyPrefix)
	}
	return repositories.NewRateLimitMemoryRepository(0)
}

func newServerConfig(cfg *config.Config) *httpserver.ServerConfig {
	return &httpserver.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		TLSCertFile:     cfg.Server.TLSCertFile,
		TLSKeyFile:      cfg.Server.TLSKeyFile,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		Environment:     cfg.Server.Environment,
		APIPrefix:       cfg.Server.APIPrefix,
		ProjectName:     cfg.Server.ProjectName,
		TrustProxy:      cfg.RateLimit.TrustProxy,
		RateLimitExempt: cfg.RateLimit.ExemptPaths,
		CSRF: customMiddleware.CSRFConfig{
			HeaderName:   cfg.CSRF.HeaderName,
			CookieName:   cfg.CSRF.CookieName,
			CookieSecure: cfg.CSRF.CookieSecure,
			ExemptPaths:  cfg.CSRF.ExemptPaths,
		},
	}
}

// purgeExpiredTokens trims the database token tables until ctx is cancelled.
func purgeExpiredTokens(ctx context.Context, repo *repositories.TokenDBRepository, logger *logrus.Logger) {
	ticker := time.NewTicker(tokenPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx)
			if err != nil {
				logger.WithError(err).Warn("failed to purge expired tokens")
				continue
			}
			logger.WithField("deleted", n).Debug("purged expired tokens")
		}
	}
}
