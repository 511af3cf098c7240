package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avatarctic/realestate-crm/internal/core/domain/billing"
	"github.com/avatarctic/realestate-crm/internal/core/domain/customer"
	"github.com/avatarctic/realestate-crm/internal/core/domain/user"
	"github.com/avatarctic/realestate-crm/internal/core/ports"
	"github.com/sirupsen/logrus"
)

type BillingService struct {
	repo     ports.BillingRepository
	userRepo ports.UserRepository
	now      func() time.Time
	logger   *logrus.Logger
}

func NewBillingService(repo ports.BillingRepository, userRepo ports.UserRepository, logger *logrus.Logger) ports.BillingService {
	return &BillingService{repo: repo, userRepo: userRepo, now: time.Now, logger: logger}
}

// ListBilling returns every record to owners and only their own to members.
func (s *BillingService) ListBilling(ctx context.Context, actor *user.User) ([]*billing.Billing, error) {
	if actor.IsOwner() {
		return s.repo.List(ctx, nil)
	}
	id := actor.ID
	return s.repo.List(ctx, &id)
}

func (s *BillingService) CreateBilling(ctx context.Context, req *billing.CreateBillingRequest) (*billing.Billing, error) {
	if req.Amount <= 0 {
		return nil, ports.NewValidationError("amount must be positive")
	}
	status := req.Status
	if status == "" {
		status = billing.StatusPending
	}
	if !status.IsValid() {
		return nil, billing.ErrInvalidStatus
	}
	if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ports.NewValidationError("user %d does not exist", req.UserID)
		}
		return nil, err
	}

	b := &billing.Billing{
		UserID:      req.UserID,
		Amount:      req.Amount,
		Status:      status,
		DueDate:     req.DueDate,
		Description: req.Description,
	}
	if status == billing.StatusPaid {
		today := customer.DateOf(s.now())
		b.PaidDate = &today
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create billing record: %w", err)
	}
	return b, nil
}

func (s *BillingService) UpdateStatus(ctx context.Context, id int64, req *billing.UpdateStatusRequest) (*billing.Billing, error) {
	if !req.Status.IsValid() {
		return nil, billing.ErrInvalidStatus
	}
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Status = req.Status
	if req.PaidDate != nil {
		b.PaidDate = req.PaidDate
	}
	if b.Status == billing.StatusPaid && b.PaidDate == nil {
		today := customer.DateOf(s.now())
		b.PaidDate = &today
	}
	if err := s.repo.UpdateStatus(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to update billing status: %w", err)
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"billing_id": id, "status": b.Status}).Info("billing status updated")
	}
	return b, nil
}
