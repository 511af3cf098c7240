package ports

import (
	"context"

	"github.com/avatarctic/realestate-crm/internal/core/domain/user"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *user.User) error
	GetByID(ctx context.Context, id int64) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
	Update(ctx context.Context, user *user.User) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, params user.ListParams) ([]*user.User, error)
	CountByRole(ctx context.Context, role user.UserRole) (int, error)
}

// UserService defines the interface for user business logic.
// Methods taking an actor enforce owner/self visibility.
type UserService interface {
	Register(ctx context.Context, req *user.CreateUserRequest) (*user.User, error)
	GetUser(ctx context.Context, actor *user.User, id int64) (*user.User, error)
	UpdateUser(ctx context.Context, actor *user.User, id int64, req *user.UpdateUserRequest) (*user.User, error)
	DeleteUser(ctx context.Context, id int64) (*user.User, error)
	ListUsers(ctx context.Context, params user.ListParams) ([]*user.User, error)
	SetPassword(ctx context.Context, id int64, password string) error
}
