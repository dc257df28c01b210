package zenoti

import (
	"context"
	"fmt"
	"net/url"

	"membership-checkout/internal/domain"
	"membership-checkout/internal/domain/model"
)

type invoiceCreateRequest struct {
	CenterID      string   `json:"center_id"`
	MembershipIDs []string `json:"membership_ids"`
	UserID        string   `json:"user_id"`
}

type invoiceCreateResponse struct {
	InvoiceID string `json:"invoice_id"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type invoiceDetailResponse struct {
	Invoice *struct {
		ID    string `json:"id"`
		Guest *struct {
			FirstName   string `json:"first_name"`
			LastName    string `json:"last_name"`
			MobilePhone struct {
				Number string `json:"number"`
			} `json:"mobile_phone"`
		} `json:"guest"`
		InvoiceItems []struct {
			Name  string `json:"name"`
			Price struct {
				Sales float64 `json:"sales"`
				Tax   float64 `json:"tax"`
				Final float64 `json:"final"`
			} `json:"price"`
		} `json:"invoice_items"`
	} `json:"invoice"`
}

// CreateMembershipInvoice opens an invoice binding the guest to the plan.
// A 429 here is surfaced as domain.ErrRateLimited without retrying; the
// caller decides whether a fresh attempt is worth it.
func (c *Client) CreateMembershipInvoice(ctx context.Context, customerID, planID string) (string, error) {
	req := invoiceCreateRequest{
		CenterID:      c.centerID,
		MembershipIDs: []string{planID},
		UserID:        customerID,
	}

	var out invoiceCreateResponse
	resp, err := c.rc.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&out).
		Post("/v1/invoices/memberships")
	if cerr := classify(resp, err, "invoice create"); cerr != nil {
		return "", cerr
	}
	if out.Error != nil && out.Error.Message != "" {
		return "", fmt.Errorf("%w: invoice create: %s", domain.ErrProvider, out.Error.Message)
	}
	if out.InvoiceID == "" {
		return "", fmt.Errorf("%w: invoice create: empty invoice id", domain.ErrProvider)
	}
	return out.InvoiceID, nil
}

// GetInvoiceDetail fetches the invoice with line items and guest expanded.
// The provider composes invoices asynchronously, so a response without a
// guest or without items means "ask again", not "broken".
func (c *Client) GetInvoiceDetail(ctx context.Context, invoiceID string) (*model.InvoiceDetail, error) {
	var out invoiceDetailResponse
	resp, err := c.rc.R().
		SetContext(ctx).
		SetQueryParamsFromValues(url.Values{
			"expand": {"InvoiceItems", "Transactions"},
		}).
		SetResult(&out).
		Get("/v1/invoices/" + invoiceID)
	if cerr := classify(resp, err, "invoice detail"); cerr != nil {
		return nil, cerr
	}

	inv := out.Invoice
	if inv == nil || inv.Guest == nil || len(inv.InvoiceItems) == 0 {
		return nil, fmt.Errorf("%w: invoice %s", domain.ErrInvoiceNotReady, invoiceID)
	}

	item := inv.InvoiceItems[0]
	return &model.InvoiceDetail{
		InvoiceID:  invoiceID,
		FirstName:  inv.Guest.FirstName,
		LastName:   inv.Guest.LastName,
		Phone:      inv.Guest.MobilePhone.Number,
		ItemName:   item.Name,
		NetPrice:   item.Price.Sales,
		Tax:        item.Price.Tax,
		FinalPrice: item.Price.Final,
	}, nil
}
