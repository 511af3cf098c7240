package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	impl "github.com/avatarctic/realestate-crm/internal/application/services"
	"github.com/avatarctic/realestate-crm/internal/core/domain/auth"
	"github.com/avatarctic/realestate-crm/internal/core/domain/user"
	"github.com/avatarctic/realestate-crm/internal/core/ports"
	"github.com/avatarctic/realestate-crm/internal/utils"
	tmocks "github.com/avatarctic/realestate-crm/test/mocks"
)

func strPtr(s string) *string { return &s }

func TestUserService_RegisterDefaultsToMember(t *testing.T) {
	var created *user.User
	repo := &tmocks.UserRepositoryMock{CreateFn: func(ctx context.Context, u *user.User) error {
		u.ID = 3
		created = u
		return nil
	}}
	svc := impl.NewUserService(repo, nil)

	u, err := svc.Register(context.Background(), &user.CreateUserRequest{
		Username: " agent ",
		Email:    "agent@example.com",
		Password: "password",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), u.ID)
	assert.Equal(t, "agent", created.Username)
	assert.Equal(t, user.RoleMember, created.Role)
	assert.NotEqual(t, "password", created.PasswordHash)
	assert.True(t, utils.CheckPassword(created.PasswordHash, "password"))
}

func TestUserService_RegisterRejectsDuplicates(t *testing.T) {
	taken := &user.User{ID: 1}
	svc := impl.NewUserService(&tmocks.UserRepositoryMock{
		GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) { return taken, nil },
	}, nil)
	_, err := svc.Register(context.Background(), &user.CreateUserRequest{Username: "a", Email: "a@example.com", Password: "password"})
	assert.ErrorIs(t, err, user.ErrEmailTaken)

	svc = impl.NewUserService(&tmocks.UserRepositoryMock{
		GetByUsernameFn: func(ctx context.Context, username string) (*user.User, error) { return taken, nil },
	}, nil)
	_, err = svc.Register(context.Background(), &user.CreateUserRequest{Username: "a", Email: "a@example.com", Password: "password"})
	assert.ErrorIs(t, err, user.ErrUsernameTaken)
}

func TestUserService_RegisterValidatesInput(t *testing.T) {
	svc := impl.NewUserService(&tmocks.UserRepositoryMock{}, nil)

	_, err := svc.Register(context.Background(), &user.CreateUserRequest{Username: "a", Email: "a@example.com", Password: "short"})
	var ve *ports.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Message, "at least 8")

	_, err = svc.Register(context.Background(), &user.CreateUserRequest{Username: "a", Email: "a@example.com", Password: "password", Role: "admin"})
	assert.True(t, errors.As(err, &ve))
}

func TestUserService_GetUserVisibility(t *testing.T) {
	target := &user.User{ID: 9, Role: user.RoleMember}
	repo := &tmocks.UserRepositoryMock{GetByIDFn: func(ctx context.Context, id int64) (*user.User, error) {
		if id == target.ID {
			return target, nil
		}
		return nil, user.ErrNotFound
	}}
	svc := impl.NewUserService(repo, nil)
	ctx := context.Background()

	got, err := svc.GetUser(ctx, &user.User{ID: 1, Role: user.RoleOwner}, 9)
	require.NoError(t, err)
	assert.Equal(t, target, got)

	got, err = svc.GetUser(ctx, target, 9)
	require.NoError(t, err)
	assert.Equal(t, target, got)

	_, err = svc.GetUser(ctx, &user.User{ID: 2, Role: user.RoleMember}, 9)
	assert.ErrorIs(t, err, auth.ErrForbidden)

	_, err = svc.GetUser(ctx, &user.User{ID: 1, Role: user.RoleOwner}, 404)
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestUserService_UpdateUser(t *testing.T) {
	stored := &user.User{ID: 5, Username: "old", Email: "old@example.com", Role: user.RoleMember}
	var saved *user.User
	repo := &tmocks.UserRepositoryMock{
		GetByIDFn: func(ctx context.Context, id int64) (*user.User, error) {
			cp := *stored
			return &cp, nil
		},
		UpdateFn: func(ctx context.Context, u *user.User) error {
			saved = u
			return nil
		},
	}
	svc := impl.NewUserService(repo, nil)
	ctx := context.Background()
	self := &user.User{ID: 5, Role: user.RoleMember}

	u, err := svc.UpdateUser(ctx, self, 5, &user.UpdateUserRequest{Username: strPtr("new"), Company: strPtr("Acme")})
	require.NoError(t, err)
	assert.Equal(t, "new", u.Username)
	assert.Equal(t, "Acme", *saved.Company)

	member := user.RoleOwner
	_, err = svc.UpdateUser(ctx, self, 5, &user.UpdateUserRequest{Role: &member})
	assert.ErrorIs(t, err, user.ErrRoleChange)

	_, err = svc.UpdateUser(ctx, &user.User{ID: 6, Role: user.RoleMember}, 5, &user.UpdateUserRequest{})
	assert.ErrorIs(t, err, auth.ErrForbidden)

	owner := &user.User{ID: 1, Role: user.RoleOwner}
	u, err = svc.UpdateUser(ctx, owner, 5, &user.UpdateUserRequest{Role: &member, Password: strPtr("newpassword")})
	require.NoError(t, err)
	assert.Equal(t, user.RoleOwner, u.Role)
	assert.True(t, utils.CheckPassword(saved.PasswordHash, "newpassword"))
}

func TestUserService_DeleteKeepsLastOwner(t *testing.T) {
	owner := &user.User{ID: 1, Role: user.RoleOwner}
	owners := 1
	deleted := false
	repo := &tmocks.UserRepositoryMock{
		GetByIDFn:     func(ctx context.Context, id int64) (*user.User, error) { return owner, nil },
		CountByRoleFn: func(ctx context.Context, role user.UserRole) (int, error) { return owners, nil },
		DeleteFn: func(ctx context.Context, id int64) error {
			deleted = true
			return nil
		},
	}
	svc := impl.NewUserService(repo, nil)

	_, err := svc.DeleteUser(context.Background(), 1)
	assert.ErrorIs(t, err, user.ErrLastOwner)
	assert.False(t, deleted)

	owners = 2
	got, err := svc.DeleteUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, owner, got)
	assert.True(t, deleted)
}

func TestUserService_ListUsersNormalizesPaging(t *testing.T) {
	var got user.ListParams
	repo := &tmocks.UserRepositoryMock{ListFn: func(ctx context.Context, params user.ListParams) ([]*user.User, error) {
		got = params
		return nil, nil
	}}
	svc := impl.NewUserService(repo, nil)

	_, err := svc.ListUsers(context.Background(), user.ListParams{Skip: -4, Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, user.ListParams{Skip: 0, Limit: 100}, got)

	_, err = svc.ListUsers(context.Background(), user.ListParams{Skip: 10, Limit: 5000})
	require.NoError(t, err)
	assert.Equal(t, user.ListParams{Skip: 10, Limit: 1000}, got)
}
