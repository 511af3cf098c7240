package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/avatarctic/realestate-crm/internal/core/domain/auth"
	"github.com/avatarctic/realestate-crm/internal/core/domain/user"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func (s *AuthService) IssueToken(_ context.Context, userID int64, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.jwtConfig.AccessTokenTTL
	}
	now := time.Now()
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := accessToken.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &auth.Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC (prevent alg confusion)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*auth.Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, auth.ErrInvalidToken
	}

	if s.tokenRepo != nil && claims.ID != "" {
		revoked, err := s.tokenRepo.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, auth.ErrTokenRevoked
		}
	}
	return claims, nil
}

func (s *AuthService) ResolveCurrentUser(ctx context.Context, token string) (*user.User, error) {
	claims, err := s.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, auth.ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}

func (s *AuthService) RequireOwner(u *user.User) (*user.User, error) {
	if !u.IsOwner() {
		return nil, auth.ErrForbidden
	}
	return u, nil
}
