package services

import (
	"context"
	"strings"
	"time"

	"github.com/avatarctic/realestate-crm/internal/core/domain/lookup"
	"github.com/avatarctic/realestate-crm/internal/core/domain/registry"
	"github.com/avatarctic/realestate-crm/internal/core/ports"
	"github.com/sirupsen/logrus"
)

type LookupService struct {
	postal   ports.PostalCodeClient
	phone    ports.PhoneNumberClient
	registry ports.RegistryClient
	records  ports.RegistryRepository
	logger   *logrus.Logger
}

// NewLookupService fronts the upstream lookup providers. records may be nil, in which
// case registry search hits are not persisted.
func NewLookupService(postal ports.PostalCodeClient, phone ports.PhoneNumberClient, registryClient ports.RegistryClient, records ports.RegistryRepository, logger *logrus.Logger) ports.LookupService {
	return &LookupService{postal: postal, phone: phone, registry: registryClient, records: records, logger: logger}
}

func (s *LookupService) PostalCode(ctx context.Context, postalCode string) (*lookup.PostalCodeResult, error) {
	return s.postal.Lookup(ctx, strings.TrimSpace(postalCode))
}

func (s *LookupService) PhoneNumber(ctx context.Context, phoneNumber string) (*lookup.PhoneNumberResult, error) {
	return s.phone.Lookup(ctx, strings.TrimSpace(phoneNumber))
}

func (s *LookupService) RegistryLogin(ctx context.Context) (*lookup.RegistryLoginResult, error) {
	return s.registry.Login(ctx)
}

func (s *LookupService) RegistrySearch(ctx context.Context, actorID int64, criteria lookup.RegistrySearchCriteria) (*lookup.RegistrySearchResult, error) {
	criteria.Name = strings.TrimSpace(criteria.Name)
	criteria.Address = strings.TrimSpace(criteria.Address)
	if criteria.Name == "" && criteria.Address == "" {
		return nil, lookup.ErrMissingCriteria
	}
	result, err := s.registry.Search(ctx, criteria)
	if err != nil {
		return nil, err
	}
	if s.records != nil {
		s.recordHits(ctx, actorID, result.Results)
	}
	return result, nil
}

// recordHits keeps an extraction record per hit; failures are logged only.
func (s *LookupService) recordHits(ctx context.Context, actorID int64, hits []lookup.RegistrySearchHit) {
	now := time.Now().UTC()
	for _, hit := range hits {
		address := hit.Address
		rec := &registry.Record{
			ExtractedAt:    &now,
			CustomerName:   hit.Owner,
			CurrentAddress: &address,
			Status:         registry.StatusRegistered,
			CreatedBy:      actorID,
		}
		if err := s.records.Create(ctx, rec); err != nil && s.logger != nil {
			s.logger.WithFields(logrus.Fields{"registry_id": hit.ID, "actor_id": actorID}).WithError(err).Warn("failed to store registry record")
		}
	}
}

func (s *LookupService) RegistryDetails(ctx context.Context, registryID string) (*lookup.RegistryDetails, error) {
	return s.registry.Details(ctx, strings.TrimSpace(registryID))
}

func (s *LookupService) RegistryRecords(ctx context.Context, createdBy *int64, skip, limit int) ([]*registry.Record, error) {
	if s.records == nil {
		return []*registry.Record{}, nil
	}
	page := normalizePage(skip, limit)
	return s.records.List(ctx, createdBy, page.Skip, page.Limit)
}
