package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/avatarctic/realestate-crm/configs"
	impl "github.com/avatarctic/realestate-crm/internal/application/services"
	"github.com/avatarctic/realestate-crm/internal/core/domain/auth"
	"github.com/avatarctic/realestate-crm/internal/core/domain/user"
	"github.com/avatarctic/realestate-crm/internal/core/ports"
	"github.com/avatarctic/realestate-crm/internal/utils"
	tmocks "github.com/avatarctic/realestate-crm/test/mocks"
)

type authFixture struct {
	users  map[int64]*user.User
	repo   *tmocks.UserRepositoryMock
	tokens *tmocks.TokenRepositoryMock
	resets *tmocks.ResetTokenRepositoryMock
	email  *tmocks.EmailServiceMock
	svc    ports.AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	hash, err := utils.HashPassword("password")
	require.NoError(t, err)

	f := &authFixture{
		users: map[int64]*user.User{
			1: {ID: 1, Username: "admin", Email: "admin@example.com", PasswordHash: hash, Role: user.RoleOwner},
		},
		tokens: &tmocks.TokenRepositoryMock{},
		resets: &tmocks.ResetTokenRepositoryMock{},
		email:  &tmocks.EmailServiceMock{},
	}
	f.repo = &tmocks.UserRepositoryMock{
		GetByIDFn: func(ctx context.Context, id int64) (*user.User, error) {
			if u, ok := f.users[id]; ok {
				return u, nil
			}
			return nil, user.ErrNotFound
		},
		GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
			for _, u := range f.users {
				if u.Email == email {
					return u, nil
				}
			}
			return nil, user.ErrNotFound
		},
		GetByUsernameFn: func(ctx context.Context, username string) (*user.User, error) {
			for _, u := range f.users {
				if u.Username == username {
					return u, nil
				}
			}
			return nil, user.ErrNotFound
		},
		UpdateFn: func(ctx context.Context, u *user.User) error {
			f.users[u.ID] = u
			return nil
		},
	}
	f.svc = impl.NewAuthService(f.repo, f.tokens, f.resets, f.email,
		&config.JWTConfig{Secret: "test-secret", AccessTokenTTL: 30 * time.Minute},
		&config.EmailConfig{PasswordResetTTL: time.Hour}, nil)
	return f
}

func TestAuthService_LoginByEmailAndUsername(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	tok, err := f.svc.Login(ctx, "admin@example.com", "password", false)
	require.NoError(t, err)
	assert.Equal(t, auth.TokenTypeBearer, tok.TokenType)

	u, err := f.svc.ResolveCurrentUser(ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	// the JSON login only accepts emails
	_, err = f.svc.Login(ctx, "admin", "password", false)
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, "admin", "password", true)
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, "admin@example.com", "wrong-password", true)
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_ValidateTokenRejectsTampering(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.ValidateToken(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	other := impl.NewAuthService(f.repo, nil, nil, nil, &config.JWTConfig{Secret: "other", AccessTokenTTL: time.Minute}, nil, nil)
	foreign, err := other.IssueToken(ctx, 1, 0)
	require.NoError(t, err)
	_, err = f.svc.ValidateToken(ctx, foreign)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	expired, err := f.svc.IssueToken(ctx, 1, -time.Minute)
	require.NoError(t, err)
	// a non-positive ttl falls back to the configured one
	_, err = f.svc.ValidateToken(ctx, expired)
	require.NoError(t, err)
}

func TestAuthService_ResolveCurrentUserForDeletedUser(t *testing.T) {
	f := newAuthFixture(t)
	tok, err := f.svc.IssueToken(context.Background(), 42, 0)
	require.NoError(t, err)
	_, err = f.svc.ResolveCurrentUser(context.Background(), tok)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	tok, err := f.svc.Login(ctx, "admin@example.com", "password", false)
	require.NoError(t, err)
	require.NoError(t, f.svc.Logout(ctx, tok.AccessToken))

	_, err = f.svc.ValidateToken(ctx, tok.AccessToken)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)

	// a fresh login is unaffected
	tok2, err := f.svc.Login(ctx, "admin@example.com", "password", false)
	require.NoError(t, err)
	_, err = f.svc.ValidateToken(ctx, tok2.AccessToken)
	require.NoError(t, err)
}

func TestAuthService_PasswordResetFlow(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.RequestPasswordReset(ctx, "nobody@example.com"))
	assert.Empty(t, f.email.LastToken)

	require.NoError(t, f.svc.RequestPasswordReset(ctx, "admin@example.com"))
	assert.Equal(t, "admin@example.com", f.email.LastEmail)
	token := f.email.LastToken
	assert.Len(t, token, 64)

	err := f.svc.ConfirmPasswordReset(ctx, token, "short")
	assert.IsType(t, &ports.ValidationError{}, err)

	require.NoError(t, f.svc.ConfirmPasswordReset(ctx, token, "brand-new-password"))
	assert.True(t, utils.CheckPassword(f.users[1].PasswordHash, "brand-new-password"))

	// tokens are single use
	err = f.svc.ConfirmPasswordReset(ctx, token, "another-password")
	assert.ErrorIs(t, err, auth.ErrInvalidResetToken)
}

func TestAuthService_ResetWithoutStore(t *testing.T) {
	f := newAuthFixture(t)
	svc := impl.NewAuthService(f.repo, nil, nil, f.email, &config.JWTConfig{Secret: "s", AccessTokenTTL: time.Minute}, nil, nil)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "admin@example.com"))
	assert.Empty(t, f.email.LastToken)
	assert.ErrorIs(t, svc.ConfirmPasswordReset(context.Background(), "x", "long-enough"), auth.ErrInvalidResetToken)
}

func TestAuthService_RequireOwner(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.svc.RequireOwner(&user.User{Role: user.RoleMember})
	assert.ErrorIs(t, err, auth.ErrForbidden)
	u, err := f.svc.RequireOwner(&user.User{ID: 1, Role: user.RoleOwner})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
}
