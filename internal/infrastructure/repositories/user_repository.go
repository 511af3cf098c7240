package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/realestate-crm/internal/core/domain/user"
	"github.com/avatarctic/realestate-crm/internal/core/ports"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/db"
)

const (
	userColumns = `id, username, email, password_hash, role, company, created_at, updated_at`

	insertUserSQL = `
		INSERT INTO users (username, email, password_hash, role, company)
		VALUES (:username, :email, :password_hash, :role, :company)
		RETURNING id, created_at, updated_at`

	updateUserSQL = `
		UPDATE users
		SET username = :username, email = :email, password_hash = :password_hash,
		    role = :role, company = :company, updated_at = NOW()
		WHERE id = :id
		RETURNING updated_at`

	uniqueViolation = "23505"
)

// UserRepository stores CRM staff accounts in the users table.
type UserRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewUserRepository(database *db.Database, logger *logrus.Logger) ports.UserRepository {
	return &UserRepository{db: database, logger: logger}
}

func (r *UserRepository) log(fields logrus.Fields) *logrus.Entry {
	if r.logger == nil {
		return logrus.NewEntry(logrus.StandardLogger()).WithFields(fields)
	}
	return r.logger.WithFields(fields)
}

// uniqueError maps a unique violation on users to the matching domain error.
// The registration pre-checks can race with a concurrent insert.
func uniqueError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return nil
	}
	switch pqErr.Constraint {
	case "users_email_key":
		return user.ErrEmailTaken
	case "users_username_key":
		return user.ErrUsernameTaken
	}
	return nil
}

// namedRow runs a named statement returning one row scanned into dest.
func (r *UserRepository) namedRow(ctx context.Context, query string, u *user.User, dest ...any) error {
	stmt, err := r.db.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()
	return stmt.QueryRowxContext(ctx, u).Scan(dest...)
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	err := r.namedRow(ctx, insertUserSQL, u, &u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if domainErr := uniqueError(err); domainErr != nil {
			return domainErr
		}
		r.log(logrus.Fields{"email": u.Email, "username": u.Username}).WithError(err).Error("db: failed to create user")
		return fmt.Errorf("failed to create user: %w", err)
	}
	r.log(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("db: user created")
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, column string, arg any) (*user.User, error) {
	var u user.User
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`
	if err := r.db.DB.GetContext(ctx, &u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s %v", user.ErrNotFound, column, arg)
		}
		r.log(logrus.Fields{column: arg}).WithError(err).Error("db: failed to load user")
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return r.getOne(ctx, "id", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getOne(ctx, "email", email)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.getOne(ctx, "username", username)
}

// Update rewrites every mutable column; the service has already merged the patch.
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	err := r.namedRow(ctx, updateUserSQL, u, &u.UpdatedAt)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%w: id %d", user.ErrNotFound, u.ID)
	}
	if domainErr := uniqueError(err); domainErr != nil {
		return domainErr
	}
	r.log(logrus.Fields{"user_id": u.ID}).WithError(err).Error("db: failed to update user")
	return fmt.Errorf("failed to update user: %w", err)
}

// Delete removes the account. Customers assigned to it become unassigned
// through the ON DELETE SET NULL foreign key.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		r.log(logrus.Fields{"user_id": id}).WithError(err).Error("db: failed to delete user")
		return fmt.Errorf("failed to delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", user.ErrNotFound, id)
	}
	r.log(logrus.Fields{"user_id": id}).Info("db: user deleted")
	return nil
}

func (r *UserRepository) List(ctx context.Context, params user.ListParams) ([]*user.User, error) {
	users := []*user.User{}
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT $1 OFFSET $2`
	if err := r.db.DB.SelectContext(ctx, &users, query, params.Limit, params.Skip); err != nil {
		r.log(logrus.Fields{"skip": params.Skip, "limit": params.Limit}).WithError(err).Error("db: failed to list users")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CountByRole backs the last-owner guard on delete.
func (r *UserRepository) CountByRole(ctx context.Context, role user.UserRole) (int, error) {
	var count int
	if err := r.db.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM users WHERE role = $1`, role); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
