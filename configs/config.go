package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Email     EmailConfig
	Redis     RedisConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	CSRF      CSRFConfig
	Lookup    LookupConfig
}

type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	TLSCertFile     string
	TLSKeyFile      string
	AllowedOrigins  []string
	Environment     string
	APIPrefix       string
	ProjectName     string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	DSN      string
	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	MigrationsPath  string
}

type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
}

type EmailConfig struct {
	SendGridAPIKey   string
	FromEmail        string
	FromName         string
	BaseURL          string
	PasswordResetTTL time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	// Pool and timeout settings
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
	IdleTimeout  time.Duration
}

type LogConfig struct {
	Level  string
	Format string // json or text
}

type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	ExemptPaths       []string
	Backend           string // memory or redis
	KeyPrefix         string
	TrustProxy        bool
}

type CSRFConfig struct {
	HeaderName   string
	CookieName   string
	CookieSecure bool
	ExemptPaths  []string
}

type LookupConfig struct {
	PostalInterval   time.Duration
	PhoneInterval    time.Duration
	RegistryInterval time.Duration
	RegistryUsername string
	RegistryPassword string
}

const (
	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

var defaultAllowedOrigins = []string{
	"http://localhost:3000",
	"https://localhost:3000",
	"http://127.0.0.1:3000",
	"https://127.0.0.1:3000",
	"https://*.vercel.app",
	"https://*.render.com",
	"https://*.railway.app",
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	apiPrefix := strings.TrimRight(getEnv("API_PREFIX", "/api/v1"), "/")

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second),
			TLSCertFile:     getEnv("TLS_CERT_FILE", ""),
			TLSKeyFile:      getEnv("TLS_KEY_FILE", ""),
			AllowedOrigins:  getListEnv("CORS_ALLOWED_ORIGINS", defaultAllowedOrigins),
			Environment:     getEnv("ENVIRONMENT", "development"),
			APIPrefix:       apiPrefix,
			ProjectName:     getEnv("PROJECT_NAME", "Real Estate System API"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "real_estate"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			DSN:             getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getDurationEnv("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			MigrationsPath:  getEnv("DB_MIGRATIONS_PATH", "./migrations"),
		},
		JWT: JWTConfig{
			Secret:         getEnvRequired("JWT_SECRET"),
			AccessTokenTTL: getDurationEnv("JWT_ACCESS_TTL", time.Duration(getIntEnv("ACCESS_TOKEN_EXPIRE_MINUTES", 30))*time.Minute),
		},
		Email: EmailConfig{
			SendGridAPIKey:   getEnv("SENDGRID_API_KEY", ""),
			FromEmail:        getEnv("FROM_EMAIL", "noreply@example.com"),
			FromName:         getEnv("FROM_NAME", "Real Estate CRM"),
			BaseURL:          getEnv("BASE_URL", "http://localhost:3000"),
			PasswordResetTTL: getDurationEnv("PASSWORD_RESET_TTL", time.Hour),
		},
		Redis: RedisConfig{
			Enabled:      getBoolEnv("REDIS_ENABLED", true),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getIntEnv("REDIS_DB", 0),
			PoolSize:     getIntEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: getIntEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDurationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDurationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDurationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolTimeout:  getDurationEnv("REDIS_POOL_TIMEOUT", 4*time.Second),
			IdleTimeout:  getDurationEnv("REDIS_IDLE_TIMEOUT", 5*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerWindow: getIntEnv("RATE_LIMIT_REQUESTS", 60),
			Window:            getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
			ExemptPaths:       getListEnv("RATE_LIMIT_EXEMPT_PATHS", []string{"/healthz", "/docs", "/redoc", "/metrics"}),
			Backend:           getEnv("RATE_LIMIT_BACKEND", RateLimitBackendMemory),
			KeyPrefix:         getEnv("RATE_LIMIT_KEY_PREFIX", "ratelimit:client"),
			TrustProxy:        getBoolEnv("RATE_LIMIT_TRUST_PROXY", false),
		},
		CSRF: CSRFConfig{
			HeaderName:   getEnv("CSRF_HEADER_NAME", "X-CSRF-Token"),
			CookieName:   getEnv("CSRF_COOKIE_NAME", "csrf_token"),
			CookieSecure: getBoolEnv("CSRF_COOKIE_SECURE", true),
			ExemptPaths: getListEnv("CSRF_EXEMPT_PATHS", []string{
				apiPrefix + "/auth/login",
				apiPrefix + "/auth/login/json",
				apiPrefix + "/auth/register",
				"/healthz",
				"/docs",
				"/redoc",
			}),
		},
		Lookup: LookupConfig{
			PostalInterval:   getDurationEnv("LOOKUP_POSTAL_INTERVAL", time.Second),
			PhoneInterval:    getDurationEnv("LOOKUP_PHONE_INTERVAL", time.Second),
			RegistryInterval: getDurationEnv("LOOKUP_REGISTRY_INTERVAL", 5*time.Second),
			RegistryUsername: getEnv("REGISTRY_USERNAME", "mock_username"),
			RegistryPassword: getEnv("REGISTRY_PASSWORD", "mock_password"),
		},
	}

	switch cfg.RateLimit.Backend {
	case RateLimitBackendMemory, RateLimitBackendRedis:
	default:
		return nil, fmt.Errorf("unsupported RATE_LIMIT_BACKEND %q", cfg.RateLimit.Backend)
	}
	if cfg.RateLimit.Backend == RateLimitBackendRedis && !cfg.Redis.Enabled {
		return nil, fmt.Errorf("RATE_LIMIT_BACKEND=redis requires REDIS_ENABLED=true")
	}

	// Build database DSN unless a full URL was given
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.DBName,
			cfg.Database.SSLMode,
		)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		panic(fmt.Sprintf("Required environment variable %s is not set", key))
	}
	return value
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getListEnv splits a comma separated value; blank entries are dropped.
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
