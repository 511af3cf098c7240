package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest is the JSON login body.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// FormLoginRequest mirrors the OAuth2 password form, where username may also be an email.
type FormLoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

const TokenTypeBearer = "bearer"

// Claims are the access token claims. Subject holds the user id and ID the revocation key.
type Claims struct {
	jwt.RegisteredClaims
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetConfirm struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// ResetToken is an outstanding password reset grant.
type ResetToken struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

const (
	MsgLoggedOut         = "Logged out successfully"
	MsgResetRequested    = "If the email exists, a password reset link has been sent."
	MsgPasswordResetDone = "Password has been reset successfully."
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrForbidden          = errors.New("insufficient privileges")
)
