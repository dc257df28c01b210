//go:build !integration

package web

import (
	"context"
	"net/url"

	"membership-checkout/internal/domain/model"
)

type mockCatalogUC struct {
	PlansFn func(ctx context.Context) ([]*model.MembershipPlan, error)
}

func (m *mockCatalogUC) Plans(ctx context.Context) ([]*model.MembershipPlan, error) {
	return m.PlansFn(ctx)
}

func (m *mockCatalogUC) Refresh(ctx context.Context) error { return nil }

func (m *mockCatalogUC) Find(ctx context.Context, planID string) (*model.MembershipPlan, error) {
	panic("not expected")
}

type mockPurchaseUC struct {
	SelectPlanFn  func(ctx context.Context, planID string) (*model.PurchaseSession, error)
	SubmitPhoneFn func(ctx context.Context, sessionID, phone string) (*model.PurchaseSession, error)
	SubmitCodeFn  func(ctx context.Context, sessionID, code string) (*model.PurchaseSession, error)
	RegisterFn    func(ctx context.Context, sessionID, firstName, lastName, gender string) (*model.PurchaseSession, error)
	ConfirmFn     func(ctx context.Context, sessionID string) (*model.PaymentRequest, []byte, error)
	ReconcileFn   func(ctx context.Context, sessionID string, query url.Values) (*model.PurchaseSession, error)
	AcknowledgeFn func(ctx context.Context, sessionID string) error
	CloseFn       func(ctx context.Context, sessionID string) error
	GetFn         func(ctx context.Context, sessionID string) (*model.PurchaseSession, error)
}

func (m *mockPurchaseUC) SelectPlan(ctx context.Context, planID string) (*model.PurchaseSession, error) {
	return m.SelectPlanFn(ctx, planID)
}

func (m *mockPurchaseUC) SubmitPhone(ctx context.Context, sessionID, phone string) (*model.PurchaseSession, error) {
	return m.SubmitPhoneFn(ctx, sessionID, phone)
}

func (m *mockPurchaseUC) SubmitCode(ctx context.Context, sessionID, code string) (*model.PurchaseSession, error) {
	return m.SubmitCodeFn(ctx, sessionID, code)
}

func (m *mockPurchaseUC) Register(ctx context.Context, sessionID, firstName, lastName, gender string) (*model.PurchaseSession, error) {
	return m.RegisterFn(ctx, sessionID, firstName, lastName, gender)
}

func (m *mockPurchaseUC) Confirm(ctx context.Context, sessionID string) (*model.PaymentRequest, []byte, error) {
	return m.ConfirmFn(ctx, sessionID)
}

func (m *mockPurchaseUC) Reconcile(ctx context.Context, sessionID string, query url.Values) (*model.PurchaseSession, error) {
	return m.ReconcileFn(ctx, sessionID, query)
}

func (m *mockPurchaseUC) Acknowledge(ctx context.Context, sessionID string) error {
	return m.AcknowledgeFn(ctx, sessionID)
}

func (m *mockPurchaseUC) Close(ctx context.Context, sessionID string) error {
	return m.CloseFn(ctx, sessionID)
}

func (m *mockPurchaseUC) Get(ctx context.Context, sessionID string) (*model.PurchaseSession, error) {
	return m.GetFn(ctx, sessionID)
}
