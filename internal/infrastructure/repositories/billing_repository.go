package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avatarctic/realestate-crm/internal/core/domain/billing"
	"github.com/avatarctic/realestate-crm/internal/core/ports"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/db"
	"github.com/sirupsen/logrus"
)

const billingColumns = `id, user_id, amount, status, due_date, paid_date, description, created_at, updated_at`

type BillingRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewBillingRepository(database *db.Database, logger *logrus.Logger) ports.BillingRepository {
	return &BillingRepository{db: database, logger: logger}
}

func (r *BillingRepository) Create(ctx context.Context, b *billing.Billing) error {
	query := `
		INSERT INTO billing (user_id, amount, status, due_date, paid_date, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	err := r.db.DB.QueryRowxContext(ctx, query,
		b.UserID, b.Amount, b.Status, b.DueDate, b.PaidDate, b.Description,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": b.UserID}).WithError(err).Error("db: failed to create billing record")
		}
		return fmt.Errorf("failed to create billing record: %w", err)
	}
	return nil
}

func (r *BillingRepository) GetByID(ctx context.Context, id int64) (*billing.Billing, error) {
	var b billing.Billing
	err := r.db.DB.GetContext(ctx, &b, `SELECT `+billingColumns+` FROM billing WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: billing_id %d", billing.ErrNotFound, id)
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"billing_id": id}).WithError(err).Error("db: failed to get billing record")
		}
		return nil, fmt.Errorf("failed to get billing record: %w", err)
	}
	return &b, nil
}

func (r *BillingRepository) UpdateStatus(ctx context.Context, b *billing.Billing) error {
	query := `
		UPDATE billing SET status = $2, paid_date = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	err := r.db.DB.QueryRowxContext(ctx, query, b.ID, b.Status, b.PaidDate).Scan(&b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: billing_id %d", billing.ErrNotFound, b.ID)
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"billing_id": b.ID}).WithError(err).Error("db: failed to update billing status")
		}
		return fmt.Errorf("failed to update billing status: %w", err)
	}
	return nil
}

func (r *BillingRepository) List(ctx context.Context, userID *int64) ([]*billing.Billing, error) {
	list := []*billing.Billing{}
	var err error
	if userID == nil {
		err = r.db.DB.SelectContext(ctx, &list, `SELECT `+billingColumns+` FROM billing ORDER BY due_date DESC, id DESC`)
	} else {
		err = r.db.DB.SelectContext(ctx, &list,
			`SELECT `+billingColumns+` FROM billing WHERE user_id = $1 ORDER BY due_date DESC, id DESC`, *userID)
	}
	if err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to list billing records")
		}
		return nil, fmt.Errorf("failed to list billing records: %w", err)
	}
	return list, nil
}
