package customer

import (
	"errors"
	"time"
)

type Status string

const (
	StatusNew         Status = "new"
	StatusContacted   Status = "contacted"
	StatusNegotiating Status = "negotiating"
	StatusContracted  Status = "contracted"
	StatusClosed      Status = "closed"
	StatusLost        Status = "lost"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusNegotiating, StatusContracted, StatusClosed, StatusLost:
		return true
	default:
		return false
	}
}

// IsActive reports whether the lead is still being worked.
func (s Status) IsActive() bool {
	return s != StatusClosed && s != StatusLost
}

type Customer struct {
	ID                 int64     `json:"id" db:"id"`
	Name               string    `json:"name" db:"name"`
	PhoneNumber        string    `json:"phone_number" db:"phone_number"`
	Email              *string   `json:"email" db:"email"`
	CurrentAddress     *string   `json:"current_address" db:"current_address"`
	PostalCode         *string   `json:"postal_code" db:"postal_code"`
	InheritanceAddress *string   `json:"inheritance_address" db:"inheritance_address"`
	PropertyType       *string   `json:"property_type" db:"property_type"`
	Status             Status    `json:"status" db:"status"`
	AssignedTo         *int64    `json:"assigned_to" db:"assigned_to"`
	LastContactDate    *Date     `json:"last_contact_date" db:"last_contact_date"`
	NextContactDate    *Date     `json:"next_contact_date" db:"next_contact_date"`
	Notes              *string   `json:"notes" db:"notes"`
	Source             *string   `json:"source" db:"source"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// IsAssignedTo reports whether the customer belongs to the given user.
func (c *Customer) IsAssignedTo(userID int64) bool {
	return c.AssignedTo != nil && *c.AssignedTo == userID
}

type CustomerWithActivities struct {
	Customer
	Activities []*Activity `json:"activities"`
}

type Activity struct {
	ID          int64     `json:"id" db:"id"`
	CustomerID  int64     `json:"customer_id" db:"customer_id"`
	Date        Date      `json:"date" db:"date"`
	Type        string    `json:"type" db:"type"`
	Description string    `json:"description" db:"description"`
	Result      *string   `json:"result" db:"result"`
	CreatedBy   int64     `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type CreateCustomerRequest struct {
	Name               string  `json:"name" validate:"required"`
	PhoneNumber        string  `json:"phone_number" validate:"required"`
	Email              *string `json:"email,omitempty" validate:"omitempty,email"`
	CurrentAddress     *string `json:"current_address,omitempty"`
	PostalCode         *string `json:"postal_code,omitempty"`
	InheritanceAddress *string `json:"inheritance_address,omitempty"`
	PropertyType       *string `json:"property_type,omitempty"`
	Status             Status  `json:"status,omitempty"`
	AssignedTo         *int64  `json:"assigned_to,omitempty"`
	LastContactDate    *Date   `json:"last_contact_date,omitempty"`
	NextContactDate    *Date   `json:"next_contact_date,omitempty"`
	Notes              *string `json:"notes,omitempty"`
	Source             *string `json:"source,omitempty"`
}

// UpdateCustomerRequest is a partial update; nil fields are left untouched.
type UpdateCustomerRequest struct {
	Name               *string `json:"name,omitempty"`
	PhoneNumber        *string `json:"phone_number,omitempty"`
	Email              *string `json:"email,omitempty" validate:"omitempty,email"`
	CurrentAddress     *string `json:"current_address,omitempty"`
	PostalCode         *string `json:"postal_code,omitempty"`
	InheritanceAddress *string `json:"inheritance_address,omitempty"`
	PropertyType       *string `json:"property_type,omitempty"`
	Status             *Status `json:"status,omitempty"`
	AssignedTo         *int64  `json:"assigned_to,omitempty"`
	LastContactDate    *Date   `json:"last_contact_date,omitempty"`
	NextContactDate    *Date   `json:"next_contact_date,omitempty"`
	Notes              *string `json:"notes,omitempty"`
	Source             *string `json:"source,omitempty"`
}

type CreateActivityRequest struct {
	CustomerID  int64   `json:"customer_id" validate:"required"`
	Date        Date    `json:"date"`
	Type        string  `json:"type" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Result      *string `json:"result,omitempty"`
}

// Filter narrows customer listings. A nil AssignedTo means every assignee.
type Filter struct {
	Status     *Status
	AssignedTo *int64
	Search     string
	Skip       int
	Limit      int
}

var (
	ErrNotFound         = errors.New("customer not found")
	ErrForbidden        = errors.New("not enough permissions for this customer")
	ErrFilterForbidden  = errors.New("members can only filter by their own id")
	ErrAssignForbidden  = errors.New("members can only assign customers to themselves")
	ErrCustomerMismatch = errors.New("customer id in path does not match request body")
)
