package user

import (
	"errors"
	"time"
)

type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         UserRole  `json:"role" db:"role"`
	Company      *string   `json:"company" db:"company"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type UserRole string

const (
	RoleOwner  UserRole = "owner"
	RoleMember UserRole = "member"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsValid() bool {
	switch r {
	case RoleOwner, RoleMember:
		return true
	default:
		return false
	}
}

// IsOwner reports whether the user holds the owner role.
func (u *User) IsOwner() bool {
	return u != nil && u.Role == RoleOwner
}

var (
	ErrNotFound      = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already registered")
	ErrLastOwner     = errors.New("cannot delete the last owner")
	ErrRoleChange    = errors.New("members cannot change their role")
)

// CreateUserRequest is the registration payload.
type CreateUserRequest struct {
	Username string   `json:"username" validate:"required"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required"`
	Role     UserRole `json:"role" validate:"omitempty,oneof=owner member"`
	Company  *string  `json:"company,omitempty"`
}

// UpdateUserRequest carries the optional fields of a user update
type UpdateUserRequest struct {
	Username *string   `json:"username,omitempty"`
	Email    *string   `json:"email,omitempty" validate:"omitempty,email"`
	Company  *string   `json:"company,omitempty"`
	Password *string   `json:"password,omitempty"`
	Role     *UserRole `json:"role,omitempty" validate:"omitempty,oneof=owner member"`
}

// ListParams holds offset pagination.
type ListParams struct {
	Skip  int
	Limit int
}
