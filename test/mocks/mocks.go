package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/avatarctic/realestate-crm/internal/core/domain/analytics"
	"github.com/avatarctic/realestate-crm/internal/core/domain/auth"
	"github.com/avatarctic/realestate-crm/internal/core/domain/billing"
	"github.com/avatarctic/realestate-crm/internal/core/domain/customer"
	"github.com/avatarctic/realestate-crm/internal/core/domain/lookup"
	"github.com/avatarctic/realestate-crm/internal/core/domain/ratelimit"
	"github.com/avatarctic/realestate-crm/internal/core/domain/registry"
	"github.com/avatarctic/realestate-crm/internal/core/domain/user"
)

// UserRepositoryMock is a lightweight mock for UserRepository
type UserRepositoryMock struct {
	CreateFn        func(ctx context.Context, u *user.User) error
	GetByIDFn       func(ctx context.Context, id int64) (*user.User, error)
	GetByEmailFn    func(ctx context.Context, email string) (*user.User, error)
	GetByUsernameFn func(ctx context.Context, username string) (*user.User, error)
	UpdateFn        func(ctx context.Context, u *user.User) error
	DeleteFn        func(ctx context.Context, id int64) error
	ListFn          func(ctx context.Context, params user.ListParams) ([]*user.User, error)
	CountByRoleFn   func(ctx context.Context, role user.UserRole) (int, error)
}

func (m *UserRepositoryMock) Create(ctx context.Context, u *user.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}
func (m *UserRepositoryMock) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, user.ErrNotFound
}
func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, user.ErrNotFound
}
func (m *UserRepositoryMock) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}
	return nil, user.ErrNotFound
}
func (m *UserRepositoryMock) Update(ctx context.Context, u *user.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, u)
	}
	return nil
}
func (m *UserRepositoryMock) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}
func (m *UserRepositoryMock) List(ctx context.Context, params user.ListParams) ([]*user.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, params)
	}
	return nil, nil
}
func (m *UserRepositoryMock) CountByRole(ctx context.Context, role user.UserRole) (int, error) {
	if m.CountByRoleFn != nil {
		return m.CountByRoleFn(ctx, role)
	}
	return 0, nil
}

// TokenRepositoryMock records revocations in memory unless overridden
type TokenRepositoryMock struct {
	RevokeFn    func(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevokedFn func(ctx context.Context, jti string) (bool, error)

	mu      sync.Mutex
	revoked map[string]time.Time
}

func (m *TokenRepositoryMock) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if m.RevokeFn != nil {
		return m.RevokeFn(ctx, jti, expiresAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revoked == nil {
		m.revoked = make(map[string]time.Time)
	}
	m.revoked[jti] = expiresAt
	return nil
}
func (m *TokenRepositoryMock) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if m.IsRevokedFn != nil {
		return m.IsRevokedFn(ctx, jti)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[jti]
	return ok, nil
}

// ResetTokenRepositoryMock keeps reset tokens in memory unless overridden
type ResetTokenRepositoryMock struct {
	StoreFn   func(ctx context.Context, token *auth.ResetToken) error
	ConsumeFn func(ctx context.Context, token string) (*auth.ResetToken, error)

	mu     sync.Mutex
	tokens map[string]*auth.ResetToken
}

func (m *ResetTokenRepositoryMock) Store(ctx context.Context, token *auth.ResetToken) error {
	if m.StoreFn != nil {
		return m.StoreFn(ctx, token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokens == nil {
		m.tokens = make(map[string]*auth.ResetToken)
	}
	cp := *token
	m.tokens[token.Token] = &cp
	return nil
}
func (m *ResetTokenRepositoryMock) Consume(ctx context.Context, token string) (*auth.ResetToken, error) {
	if m.ConsumeFn != nil {
		return m.ConsumeFn(ctx, token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[token]
	if !ok {
		return nil, auth.ErrInvalidResetToken
	}
	delete(m.tokens, token)
	return t, nil
}

// EmailServiceMock captures the last reset email
type EmailServiceMock struct {
	SendPasswordResetEmailFn func(ctx context.Context, email, token, userName string) error

	mu        sync.Mutex
	LastEmail string
	LastToken string
}

func (m *EmailServiceMock) SendPasswordResetEmail(ctx context.Context, email, token, userName string) error {
	m.mu.Lock()
	m.LastEmail, m.LastToken = email, token
	m.mu.Unlock()
	if m.SendPasswordResetEmailFn != nil {
		return m.SendPasswordResetEmailFn(ctx, email, token, userName)
	}
	return nil
}

// AuthServiceMock is a lightweight mock for AuthService
type AuthServiceMock struct {
	LoginFn                func(ctx context.Context, identifier, password string, allowUsername bool) (*auth.Token, error)
	IssueTokenFn           func(ctx context.Context, userID int64, ttl time.Duration) (string, error)
	ValidateTokenFn        func(ctx context.Context, token string) (*auth.Claims, error)
	ResolveCurrentUserFn   func(ctx context.Context, token string) (*user.User, error)
	LogoutFn               func(ctx context.Context, token string) error
	RequestPasswordResetFn func(ctx context.Context, email string) error
	ConfirmPasswordResetFn func(ctx context.Context, token, newPassword string) error
}

func (m *AuthServiceMock) Login(ctx context.Context, identifier, password string, allowUsername bool) (*auth.Token, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, identifier, password, allowUsername)
	}
	return nil, auth.ErrInvalidCredentials
}
func (m *AuthServiceMock) IssueToken(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	if m.IssueTokenFn != nil {
		return m.IssueTokenFn(ctx, userID, ttl)
	}
	return "", nil
}
func (m *AuthServiceMock) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, token)
	}
	return nil, auth.ErrInvalidToken
}
func (m *AuthServiceMock) ResolveCurrentUser(ctx context.Context, token string) (*user.User, error) {
	if m.ResolveCurrentUserFn != nil {
		return m.ResolveCurrentUserFn(ctx, token)
	}
	return nil, auth.ErrInvalidToken
}
func (m *AuthServiceMock) RequireOwner(u *user.User) (*user.User, error) {
	if !u.IsOwner() {
		return nil, auth.ErrForbidden
	}
	return u, nil
}
func (m *AuthServiceMock) Logout(ctx context.Context, token string) error {
	if m.LogoutFn != nil {
		return m.LogoutFn(ctx, token)
	}
	return nil
}
func (m *AuthServiceMock) RequestPasswordReset(ctx context.Context, email string) error {
	if m.RequestPasswordResetFn != nil {
		return m.RequestPasswordResetFn(ctx, email)
	}
	return nil
}
func (m *AuthServiceMock) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if m.ConfirmPasswordResetFn != nil {
		return m.ConfirmPasswordResetFn(ctx, token, newPassword)
	}
	return nil
}

// RateLimiterServiceMock admits everything unless AdmitFn says otherwise
type RateLimiterServiceMock struct {
	AdmitFn func(ctx context.Context, clientID string) (ratelimit.Decision, error)
	StatsFn func(ctx context.Context) (*ratelimit.Stats, error)

	mu      sync.Mutex
	Clients []string
}

func (m *RateLimiterServiceMock) Admit(ctx context.Context, clientID string) (ratelimit.Decision, error) {
	m.mu.Lock()
	m.Clients = append(m.Clients, clientID)
	m.mu.Unlock()
	if m.AdmitFn != nil {
		return m.AdmitFn(ctx, clientID)
	}
	return ratelimit.Allowed, nil
}
func (m *RateLimiterServiceMock) Start(ctx context.Context) {}
func (m *RateLimiterServiceMock) Stop()                     {}
func (m *RateLimiterServiceMock) Stats(ctx context.Context) (*ratelimit.Stats, error) {
	if m.StatsFn != nil {
		return m.StatsFn(ctx)
	}
	return &ratelimit.Stats{}, nil
}

// RateLimitStoreMock is a lightweight mock for RateLimitStore
type RateLimitStoreMock struct {
	AdmitFn   func(ctx context.Context, clientID string, now time.Time, policy ratelimit.Policy) (ratelimit.Decision, error)
	SweepFn   func(ctx context.Context, now time.Time, window time.Duration) (int, error)
	TrackedFn func(ctx context.Context) (int, error)
}

func (m *RateLimitStoreMock) Admit(ctx context.Context, clientID string, now time.Time, policy ratelimit.Policy) (ratelimit.Decision, error) {
	if m.AdmitFn != nil {
		return m.AdmitFn(ctx, clientID, now, policy)
	}
	return ratelimit.Allowed, nil
}
func (m *RateLimitStoreMock) Sweep(ctx context.Context, now time.Time, window time.Duration) (int, error) {
	if m.SweepFn != nil {
		return m.SweepFn(ctx, now, window)
	}
	return 0, nil
}
func (m *RateLimitStoreMock) Tracked(ctx context.Context) (int, error) {
	if m.TrackedFn != nil {
		return m.TrackedFn(ctx)
	}
	return 0, nil
}

// CustomerRepositoryMock is a lightweight mock for CustomerRepository
type CustomerRepositoryMock struct {
	CreateFn  func(ctx context.Context, c *customer.Customer) error
	GetByIDFn func(ctx context.Context, id int64) (*customer.Customer, error)
	UpdateFn  func(ctx context.Context, c *customer.Customer) error
	DeleteFn  func(ctx context.Context, id int64) error
	ListFn    func(ctx context.Context, filter *customer.Filter) ([]*customer.Customer, error)
}

func (m *CustomerRepositoryMock) Create(ctx context.Context, c *customer.Customer) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}
func (m *CustomerRepositoryMock) GetByID(ctx context.Context, id int64) (*customer.Customer, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, customer.ErrNotFound
}
func (m *CustomerRepositoryMock) Update(ctx context.Context, c *customer.Customer) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, c)
	}
	return nil
}
func (m *CustomerRepositoryMock) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}
func (m *CustomerRepositoryMock) List(ctx context.Context, filter *customer.Filter) ([]*customer.Customer, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	return nil, nil
}

// ActivityRepositoryMock is a lightweight mock for ActivityRepository
type ActivityRepositoryMock struct {
	CreateFn         func(ctx context.Context, a *customer.Activity) error
	ListByCustomerFn func(ctx context.Context, customerID int64, skip, limit int) ([]*customer.Activity, error)
}

func (m *ActivityRepositoryMock) Create(ctx context.Context, a *customer.Activity) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}
func (m *ActivityRepositoryMock) ListByCustomer(ctx context.Context, customerID int64, skip, limit int) ([]*customer.Activity, error) {
	if m.ListByCustomerFn != nil {
		return m.ListByCustomerFn(ctx, customerID, skip, limit)
	}
	return nil, nil
}

// BillingRepositoryMock is a lightweight mock for BillingRepository
type BillingRepositoryMock struct {
	CreateFn       func(ctx context.Context, b *billing.Billing) error
	GetByIDFn      func(ctx context.Context, id int64) (*billing.Billing, error)
	UpdateStatusFn func(ctx context.Context, b *billing.Billing) error
	ListFn         func(ctx context.Context, userID *int64) ([]*billing.Billing, error)
}

func (m *BillingRepositoryMock) Create(ctx context.Context, b *billing.Billing) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, b)
	}
	return nil
}
func (m *BillingRepositoryMock) GetByID(ctx context.Context, id int64) (*billing.Billing, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, billing.ErrNotFound
}
func (m *BillingRepositoryMock) UpdateStatus(ctx context.Context, b *billing.Billing) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, b)
	}
	return nil
}
func (m *BillingRepositoryMock) List(ctx context.Context, userID *int64) ([]*billing.Billing, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID)
	}
	return nil, nil
}

// AnalyticsRepositoryMock returns empty aggregates unless overridden
type AnalyticsRepositoryMock struct {
	CustomerSummaryFn    func(ctx context.Context, scope analytics.Scope, monthStart time.Time) (*analytics.CustomerSummary, error)
	PaidRevenueFn        func(ctx context.Context, scope analytics.Scope, from time.Time) (float64, error)
	RecentActivitiesFn   func(ctx context.Context, scope analytics.Scope, limit int) ([]analytics.RecentActivity, error)
	StatusGroupsFn       func(ctx context.Context, scope analytics.Scope) ([]analytics.StatusGroup, error)
	MonthlyCustomersFn   func(ctx context.Context, scope analytics.Scope, from time.Time) ([]analytics.MonthlyCount, error)
	MonthlyClosedDealsFn func(ctx context.Context, from time.Time) ([]analytics.MonthlyAmount, error)
	MonthlyRevenueFn     func(ctx context.Context, from time.Time) ([]analytics.MonthlyAmount, error)
	RepStatsFn           func(ctx context.Context) ([]analytics.RepStats, error)
}

func (m *AnalyticsRepositoryMock) CustomerSummary(ctx context.Context, scope analytics.Scope, monthStart time.Time) (*analytics.CustomerSummary, error) {
	if m.CustomerSummaryFn != nil {
		return m.CustomerSummaryFn(ctx, scope, monthStart)
	}
	return &analytics.CustomerSummary{}, nil
}
func (m *AnalyticsRepositoryMock) PaidRevenue(ctx context.Context, scope analytics.Scope, from time.Time) (float64, error) {
	if m.PaidRevenueFn != nil {
		return m.PaidRevenueFn(ctx, scope, from)
	}
	return 0, nil
}
func (m *AnalyticsRepositoryMock) RecentActivities(ctx context.Context, scope analytics.Scope, limit int) ([]analytics.RecentActivity, error) {
	if m.RecentActivitiesFn != nil {
		return m.RecentActivitiesFn(ctx, scope, limit)
	}
	return nil, nil
}
func (m *AnalyticsRepositoryMock) StatusGroups(ctx context.Context, scope analytics.Scope) ([]analytics.StatusGroup, error) {
	if m.StatusGroupsFn != nil {
		return m.StatusGroupsFn(ctx, scope)
	}
	return nil, nil
}
func (m *AnalyticsRepositoryMock) MonthlyCustomers(ctx context.Context, scope analytics.Scope, from time.Time) ([]analytics.MonthlyCount, error) {
	if m.MonthlyCustomersFn != nil {
		return m.MonthlyCustomersFn(ctx, scope, from)
	}
	return nil, nil
}
func (m *AnalyticsRepositoryMock) MonthlyClosedDeals(ctx context.Context, from time.Time) ([]analytics.MonthlyAmount, error) {
	if m.MonthlyClosedDealsFn != nil {
		return m.MonthlyClosedDealsFn(ctx, from)
	}
	return nil, nil
}
func (m *AnalyticsRepositoryMock) MonthlyRevenue(ctx context.Context, from time.Time) ([]analytics.MonthlyAmount, error) {
	if m.MonthlyRevenueFn != nil {
		return m.MonthlyRevenueFn(ctx, from)
	}
	return nil, nil
}
func (m *AnalyticsRepositoryMock) RepStats(ctx context.Context) ([]analytics.RepStats, error) {
	if m.RepStatsFn != nil {
		return m.RepStatsFn(ctx)
	}
	return nil, nil
}

// RegistryRepositoryMock stores created records in Created
type RegistryRepositoryMock struct {
	CreateFn func(ctx context.Context, r *registry.Record) error
	ListFn   func(ctx context.Context, createdBy *int64, skip, limit int) ([]*registry.Record, error)

	mu      sync.Mutex
	Created []*registry.Record
}

func (m *RegistryRepositoryMock) Create(ctx context.Context, r *registry.Record) error {
	m.mu.Lock()
	m.Created = append(m.Created, r)
	m.mu.Unlock()
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}
func (m *RegistryRepositoryMock) List(ctx context.Context, createdBy *int64, skip, limit int) ([]*registry.Record, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, createdBy, skip, limit)
	}
	return nil, nil
}

// PostalCodeClientMock is a lightweight mock for PostalCodeClient
type PostalCodeClientMock struct {
	LookupFn func(ctx context.Context, postalCode string) (*lookup.PostalCodeResult, error)
}

func (m *PostalCodeClientMock) Lookup(ctx context.Context, postalCode string) (*lookup.PostalCodeResult, error) {
	if m.LookupFn != nil {
		return m.LookupFn(ctx, postalCode)
	}
	return &lookup.PostalCodeResult{PostalCode: postalCode, Success: true}, nil
}

// PhoneNumberClientMock is a lightweight mock for PhoneNumberClient
type PhoneNumberClientMock struct {
	LookupFn func(ctx context.Context, phoneNumber string) (*lookup.PhoneNumberResult, error)
}

func (m *PhoneNumberClientMock) Lookup(ctx context.Context, phoneNumber string) (*lookup.PhoneNumberResult, error) {
	if m.LookupFn != nil {
		return m.LookupFn(ctx, phoneNumber)
	}
	return &lookup.PhoneNumberResult{PhoneNumber: phoneNumber, Success: true}, nil
}

// RegistryClientMock is a lightweight mock for RegistryClient
type RegistryClientMock struct {
	LoginFn   func(ctx context.Context) (*lookup.RegistryLoginResult, error)
	SearchFn  func(ctx context.Context, criteria lookup.RegistrySearchCriteria) (*lookup.RegistrySearchResult, error)
	DetailsFn func(ctx context.Context, registryID string) (*lookup.RegistryDetails, error)
}

func (m *RegistryClientMock) Login(ctx context.Context) (*lookup.RegistryLoginResult, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx)
	}
	return &lookup.RegistryLoginResult{Success: true}, nil
}
func (m *RegistryClientMock) Search(ctx context.Context, criteria lookup.RegistrySearchCriteria) (*lookup.RegistrySearchResult, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, criteria)
	}
	return &lookup.RegistrySearchResult{Success: true}, nil
}
func (m *RegistryClientMock) Details(ctx context.Context, registryID string) (*lookup.RegistryDetails, error) {
	if m.DetailsFn != nil {
		return m.DetailsFn(ctx, registryID)
	}
	return &lookup.RegistryDetails{Success: true, RegistryID: registryID}, nil
}

// CacheMock is an in-memory Cache that ignores TTLs
type CacheMock struct {
	mu    sync.Mutex
	items map[string][]byte
	Gets  int
}

func (m *CacheMock) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	v, ok := m.items[key]
	return v, ok, nil
}
func (m *CacheMock) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items == nil {
		m.items = make(map[string][]byte)
	}
	m.items[key] = append([]byte(nil), value...)
	return nil
}
func (m *CacheMock) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// Len reports how many keys are cached.
func (m *CacheMock) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
