package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avatarctic/realestate-crm/internal/core/domain/auth"
	"github.com/avatarctic/realestate-crm/internal/core/domain/user"
	"github.com/avatarctic/realestate-crm/internal/core/ports"
	"github.com/avatarctic/realestate-crm/internal/utils"
	"github.com/sirupsen/logrus"
)

type UserService struct {
	repo   ports.UserRepository
	logger *logrus.Logger
}

func NewUserService(repo ports.UserRepository, logger *logrus.Logger) ports.UserService {
	return &UserService{
		repo:   repo,
		logger: logger,
	}
}

func (s *UserService) Register(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	role := req.Role
	if role == "" {
		role = user.RoleMember
	}
	if !role.IsValid() {
		return nil, ports.NewValidationError("invalid role %q", role)
	}
	if err := utils.ValidatePasswordStrength(req.Password); err != nil {
		return nil, ports.NewValidationError("%s", err.Error())
	}

	email := strings.TrimSpace(req.Email)
	username := strings.TrimSpace(req.Username)
	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}
	if err := s.ensureUsernameFree(ctx, username, 0); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	newUser := &user.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
		Company:      req.Company,
	}
	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": newUser.ID, "role": newUser.Role}).Info("user registered")
	}
	return newUser, nil
}

func (s *UserService) GetUser(ctx context.Context, actor *user.User, id int64) (*user.User, error) {
	if !actor.IsOwner() && actor.ID != id {
		return nil, auth.ErrForbidden
	}
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) UpdateUser(ctx context.Context, actor *user.User, id int64, req *user.UpdateUserRequest) (*user.User, error) {
	if !actor.IsOwner() && actor.ID != id {
		return nil, auth.ErrForbidden
	}
	if !actor.IsOwner() && req.Role != nil {
		return nil, user.ErrRoleChange
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username != existing.Username {
			if err := s.ensureUsernameFree(ctx, username, id); err != nil {
				return nil, err
			}
			existing.Username = username
		}
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != existing.Email {
			if err := s.ensureEmailFree(ctx, email, id); err != nil {
				return nil, err
			}
			existing.Email = email
		}
	}
	if req.Company != nil {
		existing.Company = req.Company
	}
	if req.Role != nil {
		if !req.Role.IsValid() {
			return nil, ports.NewValidationError("invalid role %q", *req.Role)
		}
		existing.Role = *req.Role
	}
	if req.Password != nil && *req.Password != "" {
		if err := utils.ValidatePasswordStrength(*req.Password); err != nil {
			return nil, ports.NewValidationError("%s", err.Error())
		}
		hashed, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		existing.PasswordHash = hashed
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return existing, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) (*user.User, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Role == user.RoleOwner {
		owners, err := s.repo.CountByRole(ctx, user.RoleOwner)
		if err != nil {
			return nil, err
		}
		if owners <= 1 {
			return nil, user.ErrLastOwner
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": id}).Info("user deleted")
	}
	return existing, nil
}

func (s *UserService) ListUsers(ctx context.Context, params user.ListParams) ([]*user.User, error) {
	return s.repo.List(ctx, normalizePage(params.Skip, params.Limit))
}

// SetPassword replaces the stored hash without checking the old password.
func (s *UserService) SetPassword(ctx context.Context, id int64, password string) error {
	if err := utils.ValidatePasswordStrength(password); err != nil {
		return ports.NewValidationError("%s", err.Error())
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	existing.PasswordHash = hashed
	return s.repo.Update(ctx, existing)
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string, selfID int64) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil && existing.ID != selfID:
		return user.ErrEmailTaken
	case err != nil && !errors.Is(err, user.ErrNotFound):
		return err
	}
	return nil
}

func (s *UserService) ensureUsernameFree(ctx context.Context, username string, selfID int64) error {
	existing, err := s.repo.GetByUsername(ctx, username)
	switch {
	case err == nil && existing.ID != selfID:
		return user.ErrUsernameTaken
	case err != nil && !errors.Is(err, user.ErrNotFound):
		return err
	}
	return nil
}
