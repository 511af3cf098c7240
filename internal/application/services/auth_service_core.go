package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	config "github.com/avatarctic/realestate-crm/configs"
	"github.com/avatarctic/realestate-crm/internal/core/domain/auth"
	"github.com/avatarctic/realestate-crm/internal/core/domain/user"
	"github.com/avatarctic/realestate-crm/internal/core/ports"
	"github.com/avatarctic/realestate-crm/internal/utils"
	"github.com/sirupsen/logrus"
)

type AuthService struct {
	userRepo     ports.UserRepository
	tokenRepo    ports.TokenRepository
	resetRepo    ports.ResetTokenRepository
	emailService ports.EmailService
	jwtConfig    *config.JWTConfig
	resetTTL     time.Duration
	logger       *logrus.Logger
}

// NewAuthService wires the auth collaborator. tokenRepo and resetRepo may be nil when
// Redis is disabled; logout then only succeeds client side and password reset is unavailable.
func NewAuthService(userRepo ports.UserRepository, tokenRepo ports.TokenRepository, resetRepo ports.ResetTokenRepository, emailService ports.EmailService, jwtConfig *config.JWTConfig, emailConfig *config.EmailConfig, logger *logrus.Logger) ports.AuthService {
	resetTTL := time.Hour
	if emailConfig != nil && emailConfig.PasswordResetTTL > 0 {
		resetTTL = emailConfig.PasswordResetTTL
	}
	return &AuthService{
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		resetRepo:    resetRepo,
		emailService: emailService,
		jwtConfig:    jwtConfig,
		resetTTL:     resetTTL,
		logger:       logger,
	}
}

func (s *AuthService) Login(ctx context.Context, identifier, password string, allowUsername bool) (*auth.Token, error) {
	foundUser, err := s.findByIdentifier(ctx, identifier, allowUsername)
	if err != nil {
		return nil, err
	}

	if !utils.CheckPassword(foundUser.PasswordHash, password) {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": foundUser.ID}).Info("login rejected: bad password")
		}
		return nil, auth.ErrInvalidCredentials
	}

	accessToken, err := s.IssueToken(ctx, foundUser.ID, s.jwtConfig.AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	return &auth.Token{AccessToken: accessToken, TokenType: auth.TokenTypeBearer}, nil
}

func (s *AuthService) findByIdentifier(ctx context.Context, identifier string, allowUsername bool) (*user.User, error) {
	u, err := s.userRepo.GetByEmail(ctx, identifier)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, user.ErrNotFound) {
		return nil, err
	}
	if allowUsername {
		u, err = s.userRepo.GetByUsername(ctx, identifier)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, user.ErrNotFound) {
			return nil, err
		}
	}
	return nil, auth.ErrInvalidCredentials
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.ValidateToken(ctx, token)
	if err != nil {
		return err
	}
	if s.tokenRepo == nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"subject": claims.Subject}).Warn("logout without token store: token stays valid until expiry")
		}
		return nil
	}
	expiresAt := time.Now().Add(s.jwtConfig.AccessTokenTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := s.tokenRepo.Revoke(ctx, claims.ID, expiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// RequestPasswordReset never reveals whether the email is registered.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil
		}
		return err
	}
	if s.resetRepo == nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": u.ID}).Warn("password reset requested but no reset token store is configured")
		}
		return nil
	}

	tokenStr, err := generateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}
	if err := s.resetRepo.Store(ctx, &auth.ResetToken{
		Token:     tokenStr,
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(s.resetTTL),
	}); err != nil {
		return fmt.Errorf("failed to save reset token: %w", err)
	}

	if s.emailService != nil {
		if err := s.emailService.SendPasswordResetEmail(ctx, u.Email, tokenStr, u.Username); err != nil {
			// Log error but don't fail the request
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{"user_id": u.ID}).WithError(err).Warn("failed to send password reset email")
			}
		}
	}
	return nil
}

func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if err := utils.ValidatePasswordStrength(newPassword); err != nil {
		return ports.NewValidationError("%s", err.Error())
	}
	if s.resetRepo == nil {
		return auth.ErrInvalidResetToken
	}
	rt, err := s.resetRepo.Consume(ctx, token)
	if err != nil {
		return err
	}
	u, err := s.userRepo.GetByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return auth.ErrInvalidResetToken
		}
		return err
	}
	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hashed
	if err := s.userRepo.Update(ctx, u); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": u.ID}).Info("password reset completed")
	}
	return nil
}

// generateResetToken generates a secure random token for password reset links
func generateResetToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
