//go:build !integration

package usecase

import (
	"context"

	"membership-checkout/internal/domain"
	"membership-checkout/internal/domain/model"
	"membership-checkout/internal/domain/ports/repository"
)

// Function-field mocks. Only the fields a test sets are implemented; calls
// on nil fields panic, which is the test telling us it took an unexpected
// path.

type mockCatalogSource struct {
	ListMembershipsFn func(ctx context.Context) ([]*model.MembershipPlan, error)
}

func (m *mockCatalogSource) ListMemberships(ctx context.Context) ([]*model.MembershipPlan, error) {
	return m.ListMembershipsFn(ctx)
}

type mockChallengeProvider struct {
	TokenFn func(ctx context.Context) (string, error)
	calls   int
}

func (m *mockChallengeProvider) Token(ctx context.Context) (string, error) {
	m.calls++
	if m.TokenFn != nil {
		return m.TokenFn(ctx)
	}
	return "challenge-token", nil
}

type mockIdentityProvider struct {
	SendCodeFn   func(ctx context.Context, e164Phone, challengeToken string) (string, error)
	VerifyCodeFn func(ctx context.Context, handle, code string) error
}

func (m *mockIdentityProvider) SendCode(ctx context.Context, phone, token string) (string, error) {
	return m.SendCodeFn(ctx, phone, token)
}

func (m *mockIdentityProvider) VerifyCode(ctx context.Context, handle, code string) error {
	return m.VerifyCodeFn(ctx, handle, code)
}

type mockRegistry struct {
	SearchByPhoneFn func(ctx context.Context, phone string) ([]*model.CustomerRecord, error)
	CreateFn        func(ctx context.Context, profile *model.CustomerProfile) (*model.CustomerRecord, error)
}

func (m *mockRegistry) SearchByPhone(ctx context.Context, phone string) ([]*model.CustomerRecord, error) {
	return m.SearchByPhoneFn(ctx, phone)
}

func (m *mockRegistry) Create(ctx context.Context, profile *model.CustomerProfile) (*model.CustomerRecord, error) {
	return m.CreateFn(ctx, profile)
}

type mockBilling struct {
	CreateMembershipInvoiceFn func(ctx context.Context, customerID, planID string) (string, error)
	GetInvoiceDetailFn        func(ctx context.Context, invoiceID string) (*model.InvoiceDetail, error)
	createCalls               int
	detailCalls               int
}

func (m *mockBilling) CreateMembershipInvoice(ctx context.Context, customerID, planID string) (string, error) {
	m.createCalls++
	return m.CreateMembershipInvoiceFn(ctx, customerID, planID)
}

func (m *mockBilling) GetInvoiceDetail(ctx context.Context, invoiceID string) (*model.InvoiceDetail, error) {
	m.detailCalls++
	return m.GetInvoiceDetailFn(ctx, invoiceID)
}

// memStore is an in-memory repository.SessionStore.
type memStore struct {
	snapshots map[string]repository.SessionSnapshot
}

func newMemStore() *memStore {
	return &memStore{snapshots: make(map[string]repository.SessionSnapshot)}
}

func (m *memStore) Save(ctx context.Context, sessionID string, snap *repository.SessionSnapshot) error {
	m.snapshots[sessionID] = *snap
	return nil
}

func (m *memStore) Load(ctx context.Context, sessionID string) (*repository.SessionSnapshot, error) {
	snap, ok := m.snapshots[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := snap
	return &copied, nil
}

func (m *memStore) Clear(ctx context.Context, sessionID string) error {
	delete(m.snapshots, sessionID)
	return nil
}
