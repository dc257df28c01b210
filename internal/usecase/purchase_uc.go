// File: internal/usecase/purchase_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"membership-checkout/internal/domain"
	"membership-checkout/internal/domain/model"
	"membership-checkout/internal/domain/ports/adapter"
	"membership-checkout/internal/domain/ports/repository"
	"membership-checkout/internal/infra/logging"
	"membership-checkout/internal/infra/metrics"
)

// Compile-time check
var _ PurchaseUseCase = (*purchaseUC)(nil)

// PurchaseUseCase drives one purchase session per browser context from plan
// selection through payment reconciliation. Every method is safe for
// concurrent use; transitions for one session are applied in issue order.
type PurchaseUseCase interface {
	// SelectPlan starts a session for the plan. A second select for the
	// same plan inside the guard window returns the existing session
	// instead of starting another.
	SelectPlan(ctx context.Context, planID string) (*model.PurchaseSession, error)
	// SubmitPhone validates the phone and asks the identity provider to
	// text a code. On success the session moves to OtpPending; on failure
	// it stays where it was.
	SubmitPhone(ctx context.Context, sessionID, phone string) (*model.PurchaseSession, error)
	// SubmitCode verifies the code and, on success, continues synchronously
	// into guest lookup and, when the customer is already known, invoice
	// creation.
	SubmitCode(ctx context.Context, sessionID, code string) (*model.PurchaseSession, error)
	// Register creates the customer record from the registration form and
	// continues into invoice creation.
	Register(ctx context.Context, sessionID, firstName, lastName, gender string) (*model.PurchaseSession, error)
	// Confirm builds the signed gateway request and the auto-submitting
	// form document. Serving the document is the one-way exit; the session
	// is left in PaymentRedirecting.
	Confirm(ctx context.Context, sessionID string) (*model.PaymentRequest, []byte, error)
	// Reconcile interprets the gateway's redirect-back query parameters.
	// Without a status parameter it is a no-op. It recreates the session
	// from the durable snapshot when the process restarted in between.
	Reconcile(ctx context.Context, sessionID string, query url.Values) (*model.PurchaseSession, error)
	// Acknowledge dismisses a terminal outcome and destroys the session.
	Acknowledge(ctx context.Context, sessionID string) error
	// Close abandons the flow from any state and destroys the session.
	// Results of still in-flight work are discarded when they arrive.
	Close(ctx context.Context, sessionID string) error
	// Get returns the session, advancing the invoice-detail poll when the
	// provider was still composing the invoice on the previous attempt.
	Get(ctx context.Context, sessionID string) (*model.PurchaseSession, error)
}

type selectMark struct {
	sessionID string
	at        time.Time
}

type purchaseUC struct {
	catalog   CatalogUseCase
	identity  IdentityVerifier
	customers CustomerResolver
	invoices  InvoiceCoordinator
	gateway   adapter.PaymentGateway
	store     repository.SessionStore
	log       *zerolog.Logger

	guardWindow time.Duration

	mu         sync.Mutex
	sessions   map[string]*model.PurchaseSession
	lastSelect map[string]selectMark // plan id -> most recent selection

	now   func() time.Time
	newID func() string
}

func NewPurchaseUseCase(
	catalog CatalogUseCase,
	identity IdentityVerifier,
	customers CustomerResolver,
	invoices InvoiceCoordinator,
	gateway adapter.PaymentGateway,
	store repository.SessionStore,
	guardWindow time.Duration,
	logger *zerolog.Logger,
) *purchaseUC {
	return &purchaseUC{
		catalog:     catalog,
		identity:    identity,
		customers:   customers,
		invoices:    invoices,
		gateway:     gateway,
		store:       store,
		log:         logger,
		guardWindow: guardWindow,
		sessions:    make(map[string]*model.PurchaseSession),
		lastSelect:  make(map[string]selectMark),
		now:         time.Now,
		newID:       func() string { return ulid.Make().String() },
	}
}

// view returns a copy of the session for use outside the lock.
func (u *purchaseUC) view(sessionID string) (model.PurchaseSession, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	s, ok := u.sessions[sessionID]
	if !ok {
		return model.PurchaseSession{}, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	return *s, nil
}

// apply mutates the session only if it still exists and still carries the
// generation the work was issued under. Superseded results are discarded.
func (u *purchaseUC) apply(sessionID, generation string, fn func(s *model.PurchaseSession)) (*model.PurchaseSession, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	s, ok := u.sessions[sessionID]
	if !ok || s.Generation != generation {
		return nil, false
	}
	fn(s)
	s.UpdatedAt = u.now()
	copied := *s
	return &copied, true
}

// snapshot persists the durable slice of the session. Best effort; a failed
// write costs a resumable redirect, not the purchase.
func (u *purchaseUC) snapshot(ctx context.Context, s *model.PurchaseSession) {
	snap := &repository.SessionSnapshot{
		Guest:        s.Guest,
		ModalVisible: s.ModalVisible(),
	}
	if err := u.store.Save(ctx, s.ID, snap); err != nil {
		u.log.Warn().Err(err).Str("session_id", s.ID).Msg("session snapshot write failed")
	}
}

func (u *purchaseUC) SelectPlan(ctx context.Context, planID string) (*model.PurchaseSession, error) {
	if planID == "" {
		return nil, domain.ErrNoPlanSelected
	}
	if _, err := u.catalog.Find(ctx, planID); err != nil {
		return nil, err
	}

	u.mu.Lock()
	if mark, ok := u.lastSelect[planID]; ok && u.now().Sub(mark.at) < u.guardWindow {
		if s, ok := u.sessions[mark.sessionID]; ok {
			copied := *s
			u.mu.Unlock()
			return &copied, nil
		}
	}
	now := u.now()
	s := &model.PurchaseSession{
		ID:         u.newID(),
		Generation: u.newID(),
		State:      model.StatePhoneEntry,
		PlanID:     planID,
		SelectedAt: now,
		UpdatedAt:  now,
	}
	u.sessions[s.ID] = s
	u.lastSelect[planID] = selectMark{sessionID: s.ID, at: now}
	copied := *s
	u.mu.Unlock()

	metrics.IncPlanSelection()
	u.snapshot(ctx, &copied)
	logging.With(ctx, u.log).Info().Str("session_id", copied.ID).Str("plan_id", planID).Msg("purchase started")
	return &copied, nil
}

func (u *purchaseUC) SubmitPhone(ctx context.Context, sessionID, phone string) (*model.PurchaseSession, error) {
	s, err := u.view(sessionID)
	if err != nil {
		return nil, err
	}
	// OtpPending is allowed so the visitor can request a fresh code.
	if s.State != model.StatePhoneEntry && s.State != model.StateOtpPending {
		return nil, fmt.Errorf("%w: send code in state %s", domain.ErrStateInvariant, s.State)
	}

	handle, err := u.identity.SendCode(ctx, phone)
	if err != nil {
		return nil, err
	}

	applied, ok := u.apply(sessionID, s.Generation, func(s *model.PurchaseSession) {
		s.Phone = phone
		s.VerificationHandle = handle
		s.State = model.StateOtpPending
	})
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	return applied, nil
}

func (u *purchaseUC) SubmitCode(ctx context.Context, sessionID, code string) (*model.PurchaseSession, error) {
	defer logging.TraceDuration(logging.With(ctx, u.log), "PurchaseUC.SubmitCode")()

	s, err := u.view(sessionID)
	if err != nil {
		return nil, err
	}
	if s.State != model.StateOtpPending {
		return nil, fmt.Errorf("%w: verify code in state %s", domain.ErrStateInvariant, s.State)
	}

	if err := u.identity.VerifyCode(ctx, s.VerificationHandle, code); err != nil {
		return nil, err
	}

	_, ok := u.apply(sessionID, s.Generation, func(s *model.PurchaseSession) {
		s.Verified = true
		s.VerificationHandle = ""
		s.State = model.StateGuestLookup
	})
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}

	// Verification flows straight into guest lookup in the same call.
	return u.lookupGuest(ctx, sessionID, s.Generation, s.Phone)
}

func (u *purchaseUC) lookupGuest(ctx context.Context, sessionID, generation, phone string) (*model.PurchaseSession, error) {
	record, err := u.customers.Resolve(ctx, phone)
	switch {
	case err == nil:
		applied, ok := u.apply(sessionID, generation, func(s *model.PurchaseSession) {
			s.CustomerID = record.ID
			s.State = model.StateInvoiceCreating
		})
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
		}
		return u.createInvoice(ctx, sessionID, generation, applied.CustomerID, applied.PlanID)
	case errors.Is(err, domain.ErrNotFound):
		applied, ok := u.apply(sessionID, generation, func(s *model.PurchaseSession) {
			s.State = model.StateGuestRegistration
		})
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
		}
		return applied, nil
	default:
		return nil, err
	}
}

func (u *purchaseUC) Register(ctx context.Context, sessionID, firstName, lastName, gender string) (*model.PurchaseSession, error) {
	s, err := u.view(sessionID)
	if err != nil {
		return nil, err
	}
	if s.State != model.StateGuestRegistration {
		return nil, fmt.Errorf("%w: register in state %s", domain.ErrStateInvariant, s.State)
	}

	record, err := u.customers.Register(ctx, s.Phone, firstName, lastName, gender)
	if err != nil {
		return nil, err
	}

	applied, ok := u.apply(sessionID, s.Generation, func(s *model.PurchaseSession) {
		s.CustomerID = record.ID
		s.Guest = &record.Profile
		s.State = model.StateInvoiceCreating
	})
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	u.snapshot(ctx, applied)

	return u.createInvoice(ctx, sessionID, s.Generation, record.ID, s.PlanID)
}

// createInvoice opens the invoice and polls the detail once. A not-ready
// detail leaves the session in InvoiceCreating; Get keeps polling.
func (u *purchaseUC) createInvoice(ctx context.Context, sessionID, generation, customerID, planID string) (*model.PurchaseSession, error) {
	invoiceID, err := u.invoices.Create(ctx, customerID, planID)
	if err != nil {
		return nil, err
	}
	applied, ok := u.apply(sessionID, generation, func(s *model.PurchaseSession) {
		s.InvoiceID = invoiceID
	})
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	return u.pollDetail(ctx, sessionID, generation, invoiceID, applied)
}

func (u *purchaseUC) pollDetail(ctx context.Context, sessionID, generation, invoiceID string, fallback *model.PurchaseSession) (*model.PurchaseSession, error) {
	detail, err := u.invoices.FetchDetail(ctx, invoiceID)
	if errors.Is(err, domain.ErrInvoiceNotReady) {
		return fallback, nil
	}
	if err != nil {
		return nil, err
	}
	applied, ok := u.apply(sessionID, generation, func(s *model.PurchaseSession) {
		s.Invoice = detail
		s.State = model.StateInvoiceReview
	})
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	return applied, nil
}

func (u *purchaseUC) Get(ctx context.Context, sessionID string) (*model.PurchaseSession, error) {
	s, err := u.view(sessionID)
	if err != nil {
		return nil, err
	}
	if s.State == model.StateInvoiceCreating && s.InvoiceID != "" {
		return u.pollDetail(ctx, sessionID, s.Generation, s.InvoiceID, &s)
	}
	return &s, nil
}

func (u *purchaseUC) Confirm(ctx context.Context, sessionID string) (*model.PaymentRequest, []byte, error) {
	logger := logging.With(ctx, u.log)
	defer logging.TraceDuration(logger, "PurchaseUC.Confirm")()

	s, err := u.view(sessionID)
	if err != nil {
		return nil, nil, err
	}
	if s.State != model.StateInvoiceReview || s.Invoice == nil {
		return nil, nil, fmt.Errorf("%w: confirm in state %s", domain.ErrStateInvariant, s.State)
	}

	req := u.gateway.BuildRequest(s.Invoice, s.Phone, s.ID)
	doc, err := u.gateway.FormDocument(req)
	if err != nil {
		return nil, nil, fmt.Errorf("render payment form: %w", err)
	}

	applied, ok := u.apply(sessionID, s.Generation, func(s *model.PurchaseSession) {
		s.State = model.StatePaymentRedirecting
	})
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	u.snapshot(ctx, applied)

	metrics.IncPaymentHandoff()
	logger.Info().
		Str("invoice_id", s.InvoiceID).
		Str("gateway", u.gateway.Name()).
		Msg("payment handoff")
	return req, doc, nil
}

func (u *purchaseUC) Reconcile(ctx context.Context, sessionID string, query url.Values) (*model.PurchaseSession, error) {
	logger := logging.With(ctx, u.log)
	defer logging.TraceDuration(logger, "PurchaseUC.Reconcile")()

	status := query.Get("status")
	if status == "" {
		// Normal load, nothing to reconcile.
		s, err := u.view(sessionID)
		if err != nil {
			return nil, err
		}
		return &s, nil
	}

	outcome := &model.PaymentOutcome{
		Status:        status,
		ErrorMessage:  query.Get("error_message"),
		ProductInfo:   query.Get("productinfo"),
		Amount:        query.Get("amount"),
		InvoiceStatus: model.InvoiceStatusPending,
	}
	if query.Get("sisinvoiceid") == "true" {
		outcome.InvoiceStatus = model.InvoiceStatusClosed
	}

	u.mu.Lock()
	s, ok := u.sessions[sessionID]
	if !ok {
		// The redirect usually lands in a fresh process; rebuild the
		// session around the durable snapshot.
		s = &model.PurchaseSession{
			ID:         sessionID,
			Generation: u.newID(),
			SelectedAt: u.now(),
		}
		u.sessions[sessionID] = s
	}
	s.Outcome = outcome
	s.State = model.StateResultReady // forces the entry modal closed
	s.UpdatedAt = u.now()
	copied := *s
	u.mu.Unlock()

	if copied.Guest == nil {
		if snap, err := u.store.Load(ctx, sessionID); err == nil {
			if _, applied := u.apply(sessionID, copied.Generation, func(s *model.PurchaseSession) {
				s.Guest = snap.Guest
			}); applied {
				copied.Guest = snap.Guest
			}
		} else if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn().Err(err).Msg("session snapshot read failed")
		}
	}
	u.snapshot(ctx, &copied)

	metrics.IncPaymentOutcome(status)
	logger.Info().
		Str("status", status).
		Str("invoice_status", string(outcome.InvoiceStatus)).
		Msg("payment outcome reconciled")
	return &copied, nil
}

func (u *purchaseUC) Acknowledge(ctx context.Context, sessionID string) error {
	u.mu.Lock()
	s, ok := u.sessions[sessionID]
	if !ok {
		u.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	if s.State != model.StateResultReady {
		u.mu.Unlock()
		return fmt.Errorf("%w: acknowledge in state %s", domain.ErrStateInvariant, s.State)
	}
	delete(u.sessions, sessionID)
	u.mu.Unlock()

	return u.clearStore(ctx, sessionID)
}

func (u *purchaseUC) Close(ctx context.Context, sessionID string) error {
	u.mu.Lock()
	// Bumping the generation is unnecessary since the entry is removed;
	// apply() discards results for sessions that no longer exist.
	delete(u.sessions, sessionID)
	u.mu.Unlock()

	return u.clearStore(ctx, sessionID)
}

func (u *purchaseUC) clearStore(ctx context.Context, sessionID string) error {
	if err := u.store.Clear(ctx, sessionID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		u.log.Warn().Err(err).Str("session_id", sessionID).Msg("session snapshot clear failed")
	}
	return nil
}
