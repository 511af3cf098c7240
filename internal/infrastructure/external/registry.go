package external

import (
	"context"
	"time"

	"github.com/avatarctic/realestate-crm/internal/core/domain/lookup"
	"github.com/sirupsen/logrus"
)

const registryRegistrationDate = "2025-01-15"

// RegistryClient mimics the registry library site. It holds one throttle shared by
// every call so the upstream sees at most one request per interval.
type RegistryClient struct {
	username string
	throttle *throttle
	logger   *logrus.Logger
}

func NewRegistryClient(username string, interval time.Duration, logger *logrus.Logger) *RegistryClient {
	if username == "" {
		username = "mock_username"
	}
	return &RegistryClient{username: username, throttle: newThrottle(interval), logger: logger}
}

func (c *RegistryClient) Login(ctx context.Context) (*lookup.RegistryLoginResult, error) {
	if err := c.throttle.wait(ctx); err != nil {
		return nil, err
	}
	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{"username": c.username}).Info("registry library login")
	}
	return &lookup.RegistryLoginResult{
		Success: true,
		Message: "Successfully logged in to Registry Library",
	}, nil
}

func (c *RegistryClient) Search(ctx context.Context, criteria lookup.RegistrySearchCriteria) (*lookup.RegistrySearchResult, error) {
	if err := c.throttle.wait(ctx); err != nil {
		return nil, err
	}
	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{"name": criteria.Name, "address": criteria.Address}).Info("registry library search")
	}
	return &lookup.RegistrySearchResult{
		Success: true,
		Results: []lookup.RegistrySearchHit{{
			ID:               "REG123456",
			PropertyType:     "Residential",
			Address:          orUnknown(criteria.Address),
			Owner:            orUnknown(criteria.Name),
			RegistrationDate: registryRegistrationDate,
		}},
	}, nil
}

func (c *RegistryClient) Details(ctx context.Context, registryID string) (*lookup.RegistryDetails, error) {
	if err := c.throttle.wait(ctx); err != nil {
		return nil, err
	}
	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{"registry_id": registryID}).Info("registry library details")
	}
	return &lookup.RegistryDetails{
		Success:          true,
		RegistryID:       registryID,
		PropertyType:     "Residential",
		Address:          "Tokyo, Shibuya-ku, 1-1-1",
		Owner:            "John Doe",
		RegistrationDate: registryRegistrationDate,
		PropertyDetails: lookup.PropertyDetails{
			LandArea:         "150 sq.m",
			BuildingArea:     "120 sq.m",
			ConstructionType: "Reinforced Concrete",
			YearBuilt:        "2010",
		},
		OwnershipHistory: []lookup.OwnershipRecord{{
			Owner:        "Jane Smith",
			FromDate:     "2005-03-10",
			ToDate:       registryRegistrationDate,
			TransferType: "Sale",
		}},
	}, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
