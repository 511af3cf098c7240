package billing

import (
	"errors"
	"time"

	"github.com/avatarctic/realestate-crm/internal/core/domain/customer"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue:
		return true
	default:
		return false
	}
}

type Billing struct {
	ID          int64          `json:"id" db:"id"`
	UserID      int64          `json:"user_id" db:"user_id"`
	Amount      float64        `json:"amount" db:"amount"`
	Status      Status         `json:"status" db:"status"`
	DueDate     customer.Date  `json:"due_date" db:"due_date"`
	PaidDate    *customer.Date `json:"paid_date" db:"paid_date"`
	Description *string        `json:"description" db:"description"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

type CreateBillingRequest struct {
	UserID      int64         `json:"user_id" validate:"required"`
	Amount      float64       `json:"amount" validate:"gt=0"`
	Status      Status        `json:"status,omitempty"`
	DueDate     customer.Date `json:"due_date"`
	Description *string       `json:"description,omitempty"`
}

type UpdateStatusRequest struct {
	Status   Status         `json:"status" validate:"required"`
	PaidDate *customer.Date `json:"paid_date,omitempty"`
}

var (
	ErrNotFound      = errors.New("billing record not found")
	ErrInvalidStatus = errors.New("invalid billing status")
)
