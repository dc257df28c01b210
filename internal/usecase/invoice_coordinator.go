// File: internal/usecase/invoice_coordinator.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"membership-checkout/internal/domain"
	"membership-checkout/internal/domain/model"
	"membership-checkout/internal/domain/ports/adapter"
	"membership-checkout/internal/infra/metrics"
)

// Compile-time check
var _ InvoiceCoordinator = (*invoiceCoordinator)(nil)

type InvoiceCoordinator interface {
	// Create opens an invoice for the customer and plan. A rate-limit
	// response surfaces as-is; unlike the catalog fetch this call is not
	// auto-retried.
	Create(ctx context.Context, customerID, planID string) (invoiceID string, err error)
	// FetchDetail returns the enriched invoice view, or
	// domain.ErrInvoiceNotReady while the provider is still composing it.
	FetchDetail(ctx context.Context, invoiceID string) (*model.InvoiceDetail, error)
}

type invoiceCoordinator struct {
	billing adapter.BillingService
	log     *zerolog.Logger
}

func NewInvoiceCoordinator(billing adapter.BillingService, logger *zerolog.Logger) *invoiceCoordinator {
	return &invoiceCoordinator{billing: billing, log: logger}
}

func (c *invoiceCoordinator) Create(ctx context.Context, customerID, planID string) (string, error) {
	if planID == "" {
		return "", fmt.Errorf("%w: %w", domain.ErrStateInvariant, domain.ErrNoPlanSelected)
	}
	if customerID == "" {
		return "", fmt.Errorf("%w: invoice creation without a resolved customer", domain.ErrStateInvariant)
	}

	start := time.Now()
	invoiceID, err := c.billing.CreateMembershipInvoice(ctx, customerID, planID)
	if err != nil {
		return "", err
	}
	metrics.ObserveInvoiceCreateMs(float64(time.Since(start).Milliseconds()))
	c.log.Info().Str("invoice_id", invoiceID).Str("plan_id", planID).Msg("invoice created")
	return invoiceID, nil
}

func (c *invoiceCoordinator) FetchDetail(ctx context.Context, invoiceID string) (*model.InvoiceDetail, error) {
	return c.billing.GetInvoiceDetail(ctx, invoiceID)
}
