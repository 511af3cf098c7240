package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/realestate-crm/internal/core/domain/user"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/repositories"
	tmocks "github.com/avatarctic/realestate-crm/test/mocks"
)

func TestCachingUserRepository_ServesRepeatLookupsFromCache(t *testing.T) {
	loads := 0
	stored := &user.User{ID: 4, Username: "agent", Email: "agent@example.com", PasswordHash: "$2a$hash", Role: user.RoleMember}
	inner := &tmocks.UserRepositoryMock{GetByIDFn: func(ctx context.Context, id int64) (*user.User, error) {
		loads++
		cp := *stored
		return &cp, nil
	}}
	cache := &tmocks.CacheMock{}
	repo := repositories.NewCachingUserRepository(inner, cache, time.Minute)
	ctx := context.Background()

	first, err := repo.GetByID(ctx, 4)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, 4)
	require.NoError(t, err)

	assert.Equal(t, 1, loads)
	assert.Equal(t, 3, cache.Len())
	assert.Equal(t, "$2a$hash", second.PasswordHash)
	assert.Equal(t, first.Email, second.Email)

	// the email key was populated by the id lookup
	byEmail, err := repo.GetByEmail(ctx, "agent@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(4), byEmail.ID)
	assert.Equal(t, 1, loads)
}

func TestCachingUserRepository_MissesAreNotCached(t *testing.T) {
	cache := &tmocks.CacheMock{}
	repo := repositories.NewCachingUserRepository(&tmocks.UserRepositoryMock{}, cache, time.Minute)

	_, err := repo.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, user.ErrNotFound)
	assert.Zero(t, cache.Len())
}

func TestCachingUserRepository_UpdateEvictsOldKeys(t *testing.T) {
	current := &user.User{ID: 4, Username: "agent", Email: "old@example.com"}
	inner := &tmocks.UserRepositoryMock{
		GetByIDFn: func(ctx context.Context, id int64) (*user.User, error) {
			cp := *current
			return &cp, nil
		},
		GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
			if email == current.Email {
				cp := *current
				return &cp, nil
			}
			return nil, user.ErrNotFound
		},
		UpdateFn: func(ctx context.Context, u *user.User) error {
			cp := *u
			current = &cp
			return nil
		},
	}
	repo := repositories.NewCachingUserRepository(inner, &tmocks.CacheMock{}, time.Minute)
	ctx := context.Background()

	_, err := repo.GetByEmail(ctx, "old@example.com")
	require.NoError(t, err)

	require.NoError(t, repo.Update(ctx, &user.User{ID: 4, Username: "agent", Email: "new@example.com"}))

	_, err = repo.GetByEmail(ctx, "old@example.com")
	assert.ErrorIs(t, err, user.ErrNotFound)

	u, err := repo.GetByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(4), u.ID)
}
