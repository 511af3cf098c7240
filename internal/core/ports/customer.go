package ports

import (
	"context"

	"github.com/avatarctic/realestate-crm/internal/core/domain/customer"
	"github.com/avatarctic/realestate-crm/internal/core/domain/user"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *customer.Customer) error
	GetByID(ctx context.Context, id int64) (*customer.Customer, error)
	Update(ctx context.Context, c *customer.Customer) error
	Delete(ctx context.Context, id int64) error
	// List applies the filter; Limit <= 0 returns every match.
	List(ctx context.Context, filter *customer.Filter) ([]*customer.Customer, error)
}

type ActivityRepository interface {
	// Create inserts the activity and moves the customer's last_contact_date to its date.
	Create(ctx context.Context, a *customer.Activity) error
	ListByCustomer(ctx context.Context, customerID int64, skip, limit int) ([]*customer.Activity, error)
}

// CustomerExport is a rendered CSV download.
type CustomerExport struct {
	Filename string
	Content  []byte
}

type CustomerService interface {
	ListCustomers(ctx context.Context, actor *user.User, filter *customer.Filter) ([]*customer.Customer, error)
	CreateCustomer(ctx context.Context, actor *user.User, req *customer.CreateCustomerRequest) (*customer.Customer, error)
	GetCustomer(ctx context.Context, actor *user.User, id int64) (*customer.CustomerWithActivities, error)
	UpdateCustomer(ctx context.Context, actor *user.User, id int64, req *customer.UpdateCustomerRequest) (*customer.Customer, error)
	DeleteCustomer(ctx context.Context, actor *user.User, id int64) (*customer.Customer, error)
	ListActivities(ctx context.Context, actor *user.User, customerID int64, skip, limit int) ([]*customer.Activity, error)
	CreateActivity(ctx context.Context, actor *user.User, customerID int64, req *customer.CreateActivityRequest) (*customer.Activity, error)
	ExportCustomers(ctx context.Context, actor *user.User, filter *customer.Filter) (*CustomerExport, error)
}
