//go:build !integration

package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"membership-checkout/internal/domain"
	"membership-checkout/internal/domain/model"
)

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func newTestServer(catalog *mockCatalogUC, purchase *mockPurchaseUC) *httptest.Server {
	logger := zerolog.Nop()
	s := NewServer(catalog, purchase, &logger)
	return httptest.NewServer(s.Router())
}

func TestPlansEndpoint(t *testing.T) {
	catalog := &mockCatalogUC{
		PlansFn: func(ctx context.Context) ([]*model.MembershipPlan, error) {
			return []*model.MembershipPlan{
				{ID: "a", Name: "Silver", SalePrice: 15000, ValidityMonths: 6, DiscountPercent: 35},
			}, nil
		},
	}
	srv := newTestServer(catalog, &mockPurchaseUC{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/plans")
	if err != nil {
		t.Fatalf("get plans: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var plans []planView
	if err := json.NewDecoder(resp.Body).Decode(&plans); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(plans) != 1 || plans[0].ValidityMonths != 6 || plans[0].DiscountPercent != 35 {
		t.Errorf("unexpected plans %+v", plans)
	}
}

func TestPurchaseEndpoints(t *testing.T) {
	session := &model.PurchaseSession{ID: "sess-1", State: model.StatePhoneEntry, PlanID: "a"}

	t.Run("should start a purchase", func(t *testing.T) {
		purchase := &mockPurchaseUC{
			SelectPlanFn: func(ctx context.Context, planID string) (*model.PurchaseSession, error) {
				if planID != "a" {
					t.Errorf("expected plan a, got %q", planID)
				}
				return session, nil
			},
		}
		srv := newTestServer(&mockCatalogUC{}, purchase)
		defer srv.Close()

		resp, err := http.Post(srv.URL+"/api/v1/purchase", "application/json", strings.NewReader(`{"plan_id":"a"}`))
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}
		var view sessionView
		if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if view.ID != "sess-1" || view.State != model.StatePhoneEntry || !view.ModalVisible {
			t.Errorf("unexpected view %+v", view)
		}
	})

	t.Run("should route the phone step", func(t *testing.T) {
		purchase := &mockPurchaseUC{
			SubmitPhoneFn: func(ctx context.Context, sessionID, phone string) (*model.PurchaseSession, error) {
				if sessionID != "sess-1" || phone != "9876543210" {
					t.Errorf("unexpected args %q %q", sessionID, phone)
				}
				return &model.PurchaseSession{ID: sessionID, State: model.StateOtpPending}, nil
			},
		}
		srv := newTestServer(&mockCatalogUC{}, purchase)
		defer srv.Close()

		resp, err := http.Post(srv.URL+"/api/v1/purchase/sess-1/phone", "application/json", strings.NewReader(`{"phone":"9876543210"}`))
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("should serve the gateway form on confirm", func(t *testing.T) {
		purchase := &mockPurchaseUC{
			ConfirmFn: func(ctx context.Context, sessionID string) (*model.PaymentRequest, []byte, error) {
				return &model.PaymentRequest{}, []byte("<form>payu</form>"), nil
			},
		}
		srv := newTestServer(&mockCatalogUC{}, purchase)
		defer srv.Close()

		resp, err := http.Post(srv.URL+"/api/v1/purchase/sess-1/confirm", "application/json", nil)
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		defer resp.Body.Close()
		if got := resp.Header.Get("Content-Type"); !strings.HasPrefix(got, "text/html") {
			t.Errorf("expected html, got %q", got)
		}
	})
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", fmt.Errorf("%w: phone number should be 10 digits", domain.ErrInvalidArgument), http.StatusBadRequest},
		{"wrong code", fmt.Errorf("%w: INVALID_CODE", domain.ErrVerificationFailed), http.StatusBadRequest},
		{"unknown session", domain.ErrSessionNotFound, http.StatusNotFound},
		{"state invariant", fmt.Errorf("%w: confirm in state idle", domain.ErrStateInvariant), http.StatusConflict},
		{"invoice not ready", domain.ErrInvoiceNotReady, http.StatusAccepted},
		{"rate limited", domain.ErrRateLimited, http.StatusTooManyRequests},
		{"provider", domain.ErrProvider, http.StatusBadGateway},
		{"unavailable", domain.ErrUnavailable, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			purchase := &mockPurchaseUC{
				SubmitPhoneFn: func(ctx context.Context, sessionID, phone string) (*model.PurchaseSession, error) {
					return nil, tc.err
				},
			}
			srv := newTestServer(&mockCatalogUC{}, purchase)
			defer srv.Close()

			resp, err := http.Post(srv.URL+"/api/v1/purchase/sess-1/phone", "application/json", strings.NewReader(`{"phone":"1"}`))
			if err != nil {
				t.Fatalf("post: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.StatusCode)
			}
		})
	}
}

func TestPaymentReturn(t *testing.T) {
	t.Run("should reconcile and render the result page", func(t *testing.T) {
		var gotQuery url.Values
		purchase := &mockPurchaseUC{
			ReconcileFn: func(ctx context.Context, sessionID string, query url.Values) (*model.PurchaseSession, error) {
				if sessionID != "sess-1" {
					t.Errorf("expected sess-1, got %q", sessionID)
				}
				gotQuery = query
				return &model.PurchaseSession{
					ID:    sessionID,
					State: model.StateResultReady,
					Guest: &model.CustomerProfile{FirstName: "Asha", LastName: "Rao"},
					Outcome: &model.PaymentOutcome{
						Status:        "success",
						ProductInfo:   "Silver",
						Amount:        "15000",
						InvoiceStatus: model.InvoiceStatusClosed,
					},
				}, nil
			},
		}
		srv := newTestServer(&mockCatalogUC{}, purchase)
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/payment/return?sid=sess-1&status=success&sisinvoiceid=true&amount=15000&productinfo=Silver")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if gotQuery.Get("sisinvoiceid") != "true" {
			t.Errorf("expected query passed through, got %v", gotQuery)
		}

		html := readAll(t, resp)
		if !strings.Contains(html, "Payment Successful") {
			t.Error("expected success heading")
		}
		if !strings.Contains(html, "Asha Rao") {
			t.Error("expected guest name")
		}
	})

	t.Run("should fall back to the udf1 session id", func(t *testing.T) {
		purchase := &mockPurchaseUC{
			ReconcileFn: func(ctx context.Context, sessionID string, query url.Values) (*model.PurchaseSession, error) {
				if sessionID != "sess-7" {
					t.Errorf("expected sess-7, got %q", sessionID)
				}
				return &model.PurchaseSession{
					ID: sessionID, State: model.StateResultReady,
					Outcome: &model.PaymentOutcome{Status: "failure", InvoiceStatus: model.InvoiceStatusPending},
				}, nil
			},
		}
		srv := newTestServer(&mockCatalogUC{}, purchase)
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/payment/return?udf1=sess-7&status=failure")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		defer resp.Body.Close()
		if !strings.Contains(readAll(t, resp), "Payment Failed") {
			t.Error("expected failure heading")
		}
	})

	t.Run("should reject a return without parameters", func(t *testing.T) {
		srv := newTestServer(&mockCatalogUC{}, &mockPurchaseUC{})
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/payment/return")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
	})
}
