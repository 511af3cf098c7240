package repositories

import (
	"context"
	"fmt"

	"github.com/avatarctic/realestate-crm/internal/core/domain/customer"
	"github.com/avatarctic/realestate-crm/internal/core/ports"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/db"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ActivityRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewActivityRepository(database *db.Database, logger *logrus.Logger) ports.ActivityRepository {
	return &ActivityRepository{db: database, logger: logger}
}

// Create inserts the activity and bumps the customer's last contact date in one transaction.
func (r *ActivityRepository) Create(ctx context.Context, a *customer.Activity) error {
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO activities (customer_id, date, type, description, result, created_by)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at`
		if err := tx.QueryRowxContext(ctx, query,
			a.CustomerID, a.Date, a.Type, a.Description, a.Result, a.CreatedBy,
		).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return fmt.Errorf("failed to insert activity: %w", err)
		}

		result, err := tx.ExecContext(ctx,
			`UPDATE customers SET last_contact_date = $2, updated_at = NOW() WHERE id = $1`,
			a.CustomerID, a.Date)
		if err != nil {
			return fmt.Errorf("failed to update last contact date: %w", err)
		}
		if n, err := result.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("%w: customer_id %d", customer.ErrNotFound, a.CustomerID)
		}
		return nil
	})
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"customer_id": a.CustomerID}).WithError(err).Error("db: failed to create activity")
		}
		return err
	}
	return nil
}

func (r *ActivityRepository) ListByCustomer(ctx context.Context, customerID int64, skip, limit int) ([]*customer.Activity, error) {
	list := []*customer.Activity{}
	query := `
		SELECT id, customer_id, date, type, description, result, created_by, created_at, updated_at
		FROM activities
		WHERE customer_id = $1
		ORDER BY date DESC, id DESC`
	args := []any{customerID}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, skip)
	}
	if err := r.db.DB.SelectContext(ctx, &list, query, args...); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"customer_id": customerID}).WithError(err).Error("db: failed to list activities")
		}
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return list, nil
}
