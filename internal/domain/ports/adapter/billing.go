package adapter

import (
	"context"

	"membership-checkout/internal/domain/model"
)

// BillingService is the hex port for the invoice provider.
type BillingService interface {
	// CreateMembershipInvoice opens an invoice for the customer + plan.
	// A 429 maps to domain.ErrRateLimited (surfaced, not retried here);
	// a business rejection wraps domain.ErrProvider with the provider's
	// message.
	CreateMembershipInvoice(ctx context.Context, customerID, planID string) (invoiceID string, err error)
	// GetInvoiceDetail fetches the invoice with line items and guest
	// snapshot expanded. Returns domain.ErrInvoiceNotReady while the
	// provider is still composing the invoice (no guest or no items).
	GetInvoiceDetail(ctx context.Context, invoiceID string) (*model.InvoiceDetail, error)
}
