package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/realestate-crm/internal/core/ports"
)

const revokedTokenPrefix = "crm:revoked"

// TokenRedisRepository is the logout denylist. Each revoked jti lives in
// Redis exactly as long as the access token it names would have.
type TokenRedisRepository struct {
	client redis.Cmdable
	logger *logrus.Logger
}

var _ ports.TokenRepository = (*TokenRedisRepository)(nil)

func NewTokenRedisRepository(client redis.Cmdable, logger *logrus.Logger) *TokenRedisRepository {
	return &TokenRedisRepository{client: client, logger: logger}
}

func revokedKey(jti string) string {
	return revokedTokenPrefix + ":" + jti
}

// Revoke is idempotent; a second logout with the same token keeps the first entry.
// Tokens that have already expired need no entry.
func (r *TokenRedisRepository) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	created, err := r.client.SetNX(ctx, revokedKey(jti), expiresAt.Unix(), ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to revoke token in redis: %w", err)
	}
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"jti": jti, "ttl": ttl.Round(time.Second), "new": created}).Debug("redis: access token revoked")
	}
	return nil
}

func (r *TokenRedisRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n == 1, nil
}
