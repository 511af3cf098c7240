package configs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/realestate-crm/configs"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := configs.Load()
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.RateLimit.RequestsPerWindow)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, configs.RateLimitBackendMemory, cfg.RateLimit.Backend)
	assert.False(t, cfg.RateLimit.TrustProxy)
	assert.Equal(t, "X-CSRF-Token", cfg.CSRF.HeaderName)
	assert.Equal(t, "csrf_token", cfg.CSRF.CookieName)
	assert.True(t, cfg.CSRF.CookieSecure)
	assert.Contains(t, cfg.CSRF.ExemptPaths, "/api/v1/auth/login")
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Contains(t, cfg.Database.DSN, "dbname=real_estate")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("API_PREFIX", "/api/v2/")
	t.Setenv("RATE_LIMIT_REQUESTS", "10")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://crm.example.com, ,https://*.example.org")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "90")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/crm")

	cfg, err := configs.Load()
	require.NoError(t, err)
	assert.Equal(t, "/api/v2", cfg.Server.APIPrefix)
	assert.Equal(t, 10, cfg.RateLimit.RequestsPerWindow)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, []string{"https://crm.example.com", "https://*.example.org"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 90*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, "postgres://u:p@db/crm", cfg.Database.DSN)
	assert.Contains(t, cfg.CSRF.ExemptPaths, "/api/v2/auth/login")
}

func TestLoad_RejectsBadBackend(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("RATE_LIMIT_BACKEND", "memcached")
	_, err := configs.Load()
	assert.Error(t, err)

	t.Setenv("RATE_LIMIT_BACKEND", "redis")
	t.Setenv("REDIS_ENABLED", "false")
	_, err = configs.Load()
	assert.Error(t, err)
}

func TestLoad_PanicsWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	assert.Panics(t, func() { _, _ = configs.Load() })
}
