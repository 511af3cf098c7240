package ports

import (
	"context"
	"time"

	"github.com/avatarctic/realestate-crm/internal/core/domain/auth"
	"github.com/avatarctic/realestate-crm/internal/core/domain/user"
)

// AuthService issues and validates bearer tokens and resolves the caller.
type AuthService interface {
	// Login accepts an email or, when allowUsername is set, a username.
	Login(ctx context.Context, identifier, password string, allowUsername bool) (*auth.Token, error)
	IssueToken(ctx context.Context, userID int64, ttl time.Duration) (string, error)
	ValidateToken(ctx context.Context, token string) (*auth.Claims, error)
	ResolveCurrentUser(ctx context.Context, token string) (*user.User, error)
	RequireOwner(u *user.User) (*user.User, error)
	Logout(ctx context.Context, token string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
}

// TokenRepository tracks revoked access tokens by their jti until they expire.
type TokenRepository interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// ResetTokenRepository stores single-use password reset tokens.
type ResetTokenRepository interface {
	Store(ctx context.Context, token *auth.ResetToken) error
	// Consume returns and deletes the token; a missing or expired token is auth.ErrInvalidResetToken.
	Consume(ctx context.Context, token string) (*auth.ResetToken, error)
}
