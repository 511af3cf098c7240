package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/avatarctic/realestate-crm/internal/core/domain/customer"
	"github.com/avatarctic/realestate-crm/internal/core/ports"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/db"
	"github.com/sirupsen/logrus"
)

const customerColumns = `id, name, phone_number, email, current_address, postal_code, inheritance_address,
	property_type, status, assigned_to, last_contact_date, next_contact_date, notes, source, created_at, updated_at`

type CustomerRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewCustomerRepository(database *db.Database, logger *logrus.Logger) ports.CustomerRepository {
	return &CustomerRepository{db: database, logger: logger}
}

func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	query := `
		INSERT INTO customers (name, phone_number, email, current_address, postal_code, inheritance_address,
			property_type, status, assigned_to, last_contact_date, next_contact_date, notes, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`

	err := r.db.DB.QueryRowxContext(ctx, query,
		c.Name, c.PhoneNumber, c.Email, c.CurrentAddress, c.PostalCode, c.InheritanceAddress,
		c.PropertyType, c.Status, c.AssignedTo, c.LastContactDate, c.NextContactDate, c.Notes, c.Source,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"name": c.Name}).WithError(err).Error("db: failed to create customer")
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*customer.Customer, error) {
	var c customer.Customer
	err := r.db.DB.GetContext(ctx, &c, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: customer_id %d", customer.ErrNotFound, id)
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"customer_id": id}).WithError(err).Error("db: failed to get customer")
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &c, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, phone_number = $3, email = $4, current_address = $5, postal_code = $6,
			inheritance_address = $7, property_type = $8, status = $9, assigned_to = $10,
			last_contact_date = $11, next_contact_date = $12, notes = $13, source = $14, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.DB.QueryRowxContext(ctx, query,
		c.ID, c.Name, c.PhoneNumber, c.Email, c.CurrentAddress, c.PostalCode,
		c.InheritanceAddress, c.PropertyType, c.Status, c.AssignedTo,
		c.LastContactDate, c.NextContactDate, c.Notes, c.Source,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: customer_id %d", customer.ErrNotFound, c.ID)
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"customer_id": c.ID}).WithError(err).Error("db: failed to update customer")
		}
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"customer_id": id}).WithError(err).Error("db: failed to delete customer")
		}
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: customer_id %d", customer.ErrNotFound, id)
	}
	return nil
}

// customerListQuery builds the filtered select, newest first; search matches name, email or phone.
func customerListQuery(filter *customer.Filter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		where = append(where, fmt.Sprintf("assigned_to = $%d", len(args)))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(name ILIKE $%d OR email ILIKE $%d OR phone_number ILIKE $%d)", n, n, n))
	}

	query := `SELECT ` + customerColumns + ` FROM customers`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Skip)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	return query, args
}

func (r *CustomerRepository) List(ctx context.Context, filter *customer.Filter) ([]*customer.Customer, error) {
	if filter == nil {
		filter = &customer.Filter{}
	}
	query, args := customerListQuery(filter)
	list := []*customer.Customer{}
	if err := r.db.DB.SelectContext(ctx, &list, query, args...); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"search": filter.Search}).WithError(err).Error("db: failed to list customers")
		}
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return list, nil
}
