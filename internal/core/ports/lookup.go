package ports

import (
	"context"

	"github.com/avatarctic/realestate-crm/internal/core/domain/lookup"
	"github.com/avatarctic/realestate-crm/internal/core/domain/registry"
)

// PostalCodeClient, PhoneNumberClient and RegistryClient are the upstream lookup providers.
type PostalCodeClient interface {
	Lookup(ctx context.Context, postalCode string) (*lookup.PostalCodeResult, error)
}

type PhoneNumberClient interface {
	Lookup(ctx context.Context, phoneNumber string) (*lookup.PhoneNumberResult, error)
}

type RegistryClient interface {
	Login(ctx context.Context) (*lookup.RegistryLoginResult, error)
	Search(ctx context.Context, criteria lookup.RegistrySearchCriteria) (*lookup.RegistrySearchResult, error)
	Details(ctx context.Context, registryID string) (*lookup.RegistryDetails, error)
}

type RegistryRepository interface {
	Create(ctx context.Context, r *registry.Record) error
	// List returns records created by createdBy, or all when nil.
	List(ctx context.Context, createdBy *int64, skip, limit int) ([]*registry.Record, error)
}

type LookupService interface {
	PostalCode(ctx context.Context, postalCode string) (*lookup.PostalCodeResult, error)
	PhoneNumber(ctx context.Context, phoneNumber string) (*lookup.PhoneNumberResult, error)
	RegistryLogin(ctx context.Context) (*lookup.RegistryLoginResult, error)
	RegistrySearch(ctx context.Context, actorID int64, criteria lookup.RegistrySearchCriteria) (*lookup.RegistrySearchResult, error)
	RegistryDetails(ctx context.Context, registryID string) (*lookup.RegistryDetails, error)
	RegistryRecords(ctx context.Context, createdBy *int64, skip, limit int) ([]*registry.Record, error)
}
