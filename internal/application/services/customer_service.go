package services

import (
	"context"
	"fmt"
	"time"

	"github.com/avatarctic/realestate-crm/internal/core/domain/customer"
	"github.com/avatarctic/realestate-crm/internal/core/domain/user"
	"github.com/avatarctic/realestate-crm/internal/core/ports"
	"github.com/sirupsen/logrus"
)

type CustomerService struct {
	customers  ports.CustomerRepository
	activities ports.ActivityRepository
	now        func() time.Time
	logger     *logrus.Logger
}

func NewCustomerService(customers ports.CustomerRepository, activities ports.ActivityRepository, logger *logrus.Logger) ports.CustomerService {
	return &CustomerService{
		customers:  customers,
		activities: activities,
		now:        time.Now,
		logger:     logger,
	}
}

// scopeFilter restricts members to their own customers and rejects filtering by someone else.
func scopeFilter(actor *user.User, filter *customer.Filter) (*customer.Filter, error) {
	scoped := customer.Filter{}
	if filter != nil {
		scoped = *filter
	}
	if scoped.AssignedTo != nil {
		if !actor.IsOwner() && *scoped.AssignedTo != actor.ID {
			return nil, customer.ErrFilterForbidden
		}
	} else if !actor.IsOwner() {
		id := actor.ID
		scoped.AssignedTo = &id
	}
	return &scoped, nil
}

func canAccess(actor *user.User, c *customer.Customer) bool {
	return actor.IsOwner() || c.IsAssignedTo(actor.ID)
}

func (s *CustomerService) ListCustomers(ctx context.Context, actor *user.User, filter *customer.Filter) ([]*customer.Customer, error) {
	scoped, err := scopeFilter(actor, filter)
	if err != nil {
		return nil, err
	}
	page := normalizePage(scoped.Skip, scoped.Limit)
	scoped.Skip, scoped.Limit = page.Skip, page.Limit
	return s.customers.List(ctx, scoped)
}

func (s *CustomerService) CreateCustomer(ctx context.Context, actor *user.User, req *customer.CreateCustomerRequest) (*customer.Customer, error) {
	assignee := actor.ID
	if req.AssignedTo != nil && *req.AssignedTo != 0 {
		assignee = *req.AssignedTo
	}
	if !actor.IsOwner() && assignee != actor.ID {
		return nil, customer.ErrAssignForbidden
	}
	status := req.Status
	if status == "" {
		status = customer.StatusNew
	}
	if !status.IsValid() {
		return nil, ports.NewValidationError("invalid status %q", status)
	}

	c := &customer.Customer{
		Name:               req.Name,
		PhoneNumber:        req.PhoneNumber,
		Email:              req.Email,
		CurrentAddress:     req.CurrentAddress,
		PostalCode:         req.PostalCode,
		InheritanceAddress: req.InheritanceAddress,
		PropertyType:       req.PropertyType,
		Status:             status,
		AssignedTo:         &assignee,
		LastContactDate:    req.LastContactDate,
		NextContactDate:    req.NextContactDate,
		Notes:              req.Notes,
		Source:             req.Source,
	}
	if err := s.customers.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"customer_id": c.ID, "assigned_to": assignee, "actor_id": actor.ID}).Info("customer created")
	}
	return c, nil
}

// load fetches the customer and checks the actor may touch it.
func (s *CustomerService) load(ctx context.Context, actor *user.User, id int64) (*customer.Customer, error) {
	c, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(actor, c) {
		return nil, customer.ErrForbidden
	}
	return c, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, actor *user.User, id int64) (*customer.CustomerWithActivities, error) {
	c, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	acts, err := s.activities.ListByCustomer(ctx, id, 0, 0)
	if err != nil {
		return nil, err
	}
	if acts == nil {
		acts = []*customer.Activity{}
	}
	return &customer.CustomerWithActivities{Customer: *c, Activities: acts}, nil
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, actor *user.User, id int64, req *customer.UpdateCustomerRequest) (*customer.Customer, error) {
	c, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsOwner() && req.AssignedTo != nil && *req.AssignedTo != actor.ID {
		return nil, customer.ErrAssignForbidden
	}

	// Update fields if provided
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.PhoneNumber != nil {
		c.PhoneNumber = *req.PhoneNumber
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	if req.CurrentAddress != nil {
		c.CurrentAddress = req.CurrentAddress
	}
	if req.PostalCode != nil {
		c.PostalCode = req.PostalCode
	}
	if req.InheritanceAddress != nil {
		c.InheritanceAddress = req.InheritanceAddress
	}
	if req.PropertyType != nil {
		c.PropertyType = req.PropertyType
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, ports.NewValidationError("invalid status %q", *req.Status)
		}
		c.Status = *req.Status
	}
	if req.AssignedTo != nil {
		c.AssignedTo = req.AssignedTo
	}
	if req.LastContactDate != nil {
		c.LastContactDate = req.LastContactDate
	}
	if req.NextContactDate != nil {
		c.NextContactDate = req.NextContactDate
	}
	if req.Notes != nil {
		c.Notes = req.Notes
	}
	if req.Source != nil {
		c.Source = req.Source
	}

	if err := s.customers.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return c, nil
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, actor *user.User, id int64) (*customer.Customer, error) {
	c, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.customers.Delete(ctx, id); err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"customer_id": id, "actor_id": actor.ID}).Info("customer deleted")
	}
	return c, nil
}

func (s *CustomerService) ListActivities(ctx context.Context, actor *user.User, customerID int64, skip, limit int) ([]*customer.Activity, error) {
	if _, err := s.load(ctx, actor, customerID); err != nil {
		return nil, err
	}
	page := normalizePage(skip, limit)
	return s.activities.ListByCustomer(ctx, customerID, page.Skip, page.Limit)
}

func (s *CustomerService) CreateActivity(ctx context.Context, actor *user.User, customerID int64, req *customer.CreateActivityRequest) (*customer.Activity, error) {
	if _, err := s.load(ctx, actor, customerID); err != nil {
		return nil, err
	}
	if req.CustomerID != customerID {
		return nil, customer.ErrCustomerMismatch
	}
	a := &customer.Activity{
		CustomerID:  customerID,
		Date:        req.Date,
		Type:        req.Type,
		Description: req.Description,
		Result:      req.Result,
		CreatedBy:   actor.ID,
	}
	if err := s.activities.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}
	return a, nil
}

func (s *CustomerService) ExportCustomers(ctx context.Context, actor *user.User, filter *customer.Filter) (*ports.CustomerExport, error) {
	scoped, err := scopeFilter(actor, filter)
	if err != nil {
		return nil, err
	}
	scoped.Skip, scoped.Limit = 0, 0
	list, err := s.customers.List(ctx, scoped)
	if err != nil {
		return nil, err
	}
	return &ports.CustomerExport{
		Filename: exportFilename(s.now()),
		Content:  []byte(renderCustomersCSV(list)),
	}, nil
}
