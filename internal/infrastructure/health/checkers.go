package health

import (
	"context"

	"github.com/avatarctic/realestate-crm/internal/core/ports"
	infraDB "github.com/avatarctic/realestate-crm/internal/infrastructure/db"
	"github.com/go-redis/redis/v8"
)

// dbHealthChecker wraps the database for health checks.
type dbHealthChecker struct{ db *infraDB.Database }

func (d *dbHealthChecker) Name() string                    { return "database" }
func (d *dbHealthChecker) Check(ctx context.Context) error { return d.db.DB.PingContext(ctx) }

// redisHealthChecker wraps the redis client for health checks.
type redisHealthChecker struct{ client redis.UniversalClient }

func (r *redisHealthChecker) Name() string                    { return "redis" }
func (r *redisHealthChecker) Check(ctx context.Context) error { return r.client.Ping(ctx).Err() }

// rateLimiterHealthChecker reports whether the limiter store answers.
type rateLimiterHealthChecker struct{ limiter ports.RateLimiterService }

func (r *rateLimiterHealthChecker) Name() string { return "rate_limiter" }
func (r *rateLimiterHealthChecker) Check(ctx context.Context) error {
	_, err := r.limiter.Stats(ctx)
	return err
}

func NewDBHealthChecker(db *infraDB.Database) ports.HealthChecker { return &dbHealthChecker{db: db} }

func NewRedisHealthChecker(client redis.UniversalClient) ports.HealthChecker {
	return &redisHealthChecker{client: client}
}

func NewRateLimiterHealthChecker(limiter ports.RateLimiterService) ports.HealthChecker {
	return &rateLimiterHealthChecker{limiter: limiter}
}
