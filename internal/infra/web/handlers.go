package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"membership-checkout/internal/domain"
	"membership-checkout/internal/domain/model"
	"membership-checkout/internal/usecase"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain taxonomy onto HTTP statuses. The error text
// is safe to show: validation messages are part of the UI contract and
// provider internals are already wrapped behind sentinel prefixes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrVerificationFailed),
		errors.Is(err, domain.ErrPhoneRejected):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrStateInvariant), errors.Is(err, domain.ErrNoPlanSelected):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvoiceNotReady):
		status = http.StatusAccepted
	case errors.Is(err, domain.ErrRateLimited):
		status = http.StatusTooManyRequests
	case errors.Is(err, domain.ErrProvider),
		errors.Is(err, domain.ErrChallengeFailed),
		errors.Is(err, domain.ErrUnavailable):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

type planView struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	SalePrice       int64  `json:"sale_price"`
	ValidityMonths  int    `json:"validity_months"`
	DiscountPercent int    `json:"discount_percent"`
}

func plansHandler(catalogUC usecase.CatalogUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plans, err := catalogUC.Plans(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		views := make([]planView, 0, len(plans))
		for _, p := range plans {
			views = append(views, planView{
				ID:              p.ID,
				Name:            p.Name,
				SalePrice:       p.SalePrice,
				ValidityMonths:  p.ValidityMonths,
				DiscountPercent: p.DiscountPercent,
			})
		}
		writeJSON(w, http.StatusOK, views)
	}
}

// sessionView is the session shape the UI polls. Verification handles and
// gateway secrets never appear here.
type sessionView struct {
	ID           string                 `json:"id"`
	State        model.PurchaseState    `json:"state"`
	ModalVisible bool                   `json:"modal_visible"`
	PlanID       string                 `json:"plan_id,omitempty"`
	Guest        *model.CustomerProfile `json:"guest_info,omitempty"`
	Invoice      *model.InvoiceDetail   `json:"invoice,omitempty"`
	Outcome      *model.PaymentOutcome  `json:"outcome,omitempty"`
}

func viewOf(s *model.PurchaseSession) sessionView {
	return sessionView{
		ID:           s.ID,
		State:        s.State,
		ModalVisible: s.ModalVisible(),
		PlanID:       s.PlanID,
		Guest:        s.Guest,
		Invoice:      s.Invoice,
		Outcome:      s.Outcome,
	}
}

func purchaseSelectHandler(purchaseUC usecase.PurchaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PlanID string `json:"plan_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, errors.Join(domain.ErrInvalidArgument, err))
			return
		}
		s, err := purchaseUC.SelectPlan(r.Context(), req.PlanID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, viewOf(s))
	}
}

func purchaseGetHandler(purchaseUC usecase.PurchaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := purchaseUC.Get(r.Context(), chi.URLParam(r, "sessionID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(s))
	}
}

func purchasePhoneHandler(purchaseUC usecase.PurchaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Phone string `json:"phone"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, errors.Join(domain.ErrInvalidArgument, err))
			return
		}
		s, err := purchaseUC.SubmitPhone(r.Context(), chi.URLParam(r, "sessionID"), req.Phone)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(s))
	}
}

func purchaseOTPHandler(purchaseUC usecase.PurchaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Code string `json:"code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, errors.Join(domain.ErrInvalidArgument, err))
			return
		}
		s, err := purchaseUC.SubmitCode(r.Context(), chi.URLParam(r, "sessionID"), req.Code)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(s))
	}
}

func purchaseRegisterHandler(purchaseUC usecase.PurchaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
			Gender    string `json:"gender"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, errors.Join(domain.ErrInvalidArgument, err))
			return
		}
		s, err := purchaseUC.Register(r.Context(), chi.URLParam(r, "sessionID"), req.FirstName, req.LastName, req.Gender)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(s))
	}
}

// purchaseConfirmHandler answers with the auto-submitting gateway form.
// The browser renders and posts it immediately; this is the last response
// the session sees before the gateway redirect.
func purchaseConfirmHandler(purchaseUC usecase.PurchaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, doc, err := purchaseUC.Confirm(r.Context(), chi.URLParam(r, "sessionID"))
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(doc)
	}
}

func purchaseAckHandler(purchaseUC usecase.PurchaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := purchaseUC.Acknowledge(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func purchaseCloseHandler(purchaseUC usecase.PurchaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := purchaseUC.Close(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
