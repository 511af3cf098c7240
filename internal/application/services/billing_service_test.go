package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	impl "github.com/avatarctic/realestate-crm/internal/application/services"
	"github.com/avatarctic/realestate-crm/internal/core/domain/billing"
	"github.com/avatarctic/realestate-crm/internal/core/domain/customer"
	"github.com/avatarctic/realestate-crm/internal/core/domain/user"
	"github.com/avatarctic/realestate-crm/internal/core/ports"
	tmocks "github.com/avatarctic/realestate-crm/test/mocks"
)

func knownUsers(ids ...int64) *tmocks.UserRepositoryMock {
	return &tmocks.UserRepositoryMock{GetByIDFn: func(ctx context.Context, id int64) (*user.User, error) {
		for _, known := range ids {
			if known == id {
				return &user.User{ID: id}, nil
			}
		}
		return nil, user.ErrNotFound
	}}
}

func TestBillingService_ListScopesMembers(t *testing.T) {
	var got *int64
	repo := &tmocks.BillingRepositoryMock{ListFn: func(ctx context.Context, userID *int64) ([]*billing.Billing, error) {
		got = userID
		return nil, nil
	}}
	svc := impl.NewBillingService(repo, knownUsers(), nil)

	_, err := svc.ListBilling(context.Background(), ownerActor)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = svc.ListBilling(context.Background(), memberActor)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(2), *got)
}

func TestBillingService_Create(t *testing.T) {
	var created *billing.Billing
	repo := &tmocks.BillingRepositoryMock{CreateFn: func(ctx context.Context, b *billing.Billing) error {
		created = b
		return nil
	}}
	svc := impl.NewBillingService(repo, knownUsers(2), nil)
	ctx := context.Background()
	due := customer.NewDate(2025, time.June, 30)

	b, err := svc.CreateBilling(ctx, &billing.CreateBillingRequest{UserID: 2, Amount: 1200, DueDate: due})
	require.NoError(t, err)
	assert.Equal(t, billing.StatusPending, b.Status)
	assert.Nil(t, created.PaidDate)

	b, err = svc.CreateBilling(ctx, &billing.CreateBillingRequest{UserID: 2, Amount: 1200, DueDate: due, Status: billing.StatusPaid})
	require.NoError(t, err)
	assert.NotNil(t, b.PaidDate)

	_, err = svc.CreateBilling(ctx, &billing.CreateBillingRequest{UserID: 2, Amount: 1200, Status: "void"})
	assert.ErrorIs(t, err, billing.ErrInvalidStatus)

	_, err = svc.CreateBilling(ctx, &billing.CreateBillingRequest{UserID: 99, Amount: 1200})
	assert.IsType(t, &ports.ValidationError{}, err)

	_, err = svc.CreateBilling(ctx, &billing.CreateBillingRequest{UserID: 2, Amount: 0})
	assert.IsType(t, &ports.ValidationError{}, err)
}

func TestBillingService_UpdateStatus(t *testing.T) {
	var saved *billing.Billing
	repo := &tmocks.BillingRepositoryMock{
		GetByIDFn: func(ctx context.Context, id int64) (*billing.Billing, error) {
			if id != 1 {
				return nil, billing.ErrNotFound
			}
			return &billing.Billing{ID: 1, UserID: 2, Amount: 500, Status: billing.StatusPending}, nil
		},
		UpdateStatusFn: func(ctx context.Context, b *billing.Billing) error {
			saved = b
			return nil
		},
	}
	svc := impl.NewBillingService(repo, knownUsers(2), nil)
	ctx := context.Background()

	b, err := svc.UpdateStatus(ctx, 1, &billing.UpdateStatusRequest{Status: billing.StatusPaid})
	require.NoError(t, err)
	assert.Equal(t, billing.StatusPaid, saved.Status)
	require.NotNil(t, b.PaidDate)

	paid := customer.NewDate(2025, time.January, 15)
	b, err = svc.UpdateStatus(ctx, 1, &billing.UpdateStatusRequest{Status: billing.StatusPaid, PaidDate: &paid})
	require.NoError(t, err)
	assert.Equal(t, "2025-01-15", b.PaidDate.String())

	_, err = svc.UpdateStatus(ctx, 1, &billing.UpdateStatusRequest{Status: "refunded"})
	assert.ErrorIs(t, err, billing.ErrInvalidStatus)

	_, err = svc.UpdateStatus(ctx, 2, &billing.UpdateStatusRequest{Status: billing.StatusOverdue})
	assert.ErrorIs(t, err, billing.ErrNotFound)
}
