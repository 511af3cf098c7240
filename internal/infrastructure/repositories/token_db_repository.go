package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/avatarctic/realestate-crm/internal/core/ports"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/db"
	"github.com/sirupsen/logrus"
)

// TokenDBRepository is the Postgres revocation list used when Redis is disabled.
type TokenDBRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

var _ ports.TokenRepository = (*TokenDBRepository)(nil)

// NewTokenDBRepository creates a new token repository
func NewTokenDBRepository(database *db.Database, logger *logrus.Logger) *TokenDBRepository {
	return &TokenDBRepository{db: database, logger: logger}
}

func (r *TokenDBRepository) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	query := `
		INSERT INTO revoked_tokens (jti, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (jti) DO NOTHING`
	if _, err := r.db.DB.ExecContext(ctx, query, jti, expiresAt); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"jti": jti}).WithError(err).Error("db: failed to revoke token")
		}
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *TokenDBRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	query := `SELECT EXISTS(SELECT 1 FROM revoked_tokens WHERE jti = $1 AND expires_at > NOW())`
	if err := r.db.DB.GetContext(ctx, &revoked, query, jti); err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return revoked, nil
}

// DeleteExpired removes revocations and reset tokens whose tokens can no longer be used.
func (r *TokenDBRepository) DeleteExpired(ctx context.Context) (int64, error) {
	var total int64
	for _, query := range []string{
		`DELETE FROM revoked_tokens WHERE expires_at <= NOW()`,
		`DELETE FROM password_reset_tokens WHERE expires_at <= NOW()`,
	} {
		result, err := r.db.DB.ExecContext(ctx, query)
		if err != nil {
			return total, fmt.Errorf("failed to delete expired tokens: %w", err)
		}
		n, _ := result.RowsAffected()
		total += n
	}
	if r.logger != nil && total > 0 {
		r.logger.WithFields(logrus.Fields{"deleted": total}).Debug("db: expired tokens removed")
	}
	return total, nil
}
