package ports

import (
	"context"

	"github.com/avatarctic/realestate-crm/internal/core/domain/billing"
	"github.com/avatarctic/realestate-crm/internal/core/domain/user"
)

type BillingRepository interface {
	Create(ctx context.Context, b *billing.Billing) error
	GetByID(ctx context.Context, id int64) (*billing.Billing, error)
	UpdateStatus(ctx context.Context, b *billing.Billing) error
	// List returns records for userID, or all records when userID is nil.
	List(ctx context.Context, userID *int64) ([]*billing.Billing, error)
}

type BillingService interface {
	ListBilling(ctx context.Context, actor *user.User) ([]*billing.Billing, error)
	CreateBilling(ctx context.Context, req *billing.CreateBillingRequest) (*billing.Billing, error)
	UpdateStatus(ctx context.Context, id int64, req *billing.UpdateStatusRequest) (*billing.Billing, error)
}
