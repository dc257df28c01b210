package model

import "time"

// PurchaseState is the single tagged state of a purchase flow. The UI
// switches on this tag; there are no parallel boolean flags.
type PurchaseState string

const (
	StateIdle               PurchaseState = "idle"
	StatePhoneEntry         PurchaseState = "phone_entry"
	StateOtpPending         PurchaseState = "otp_pending"
	StateGuestLookup        PurchaseState = "guest_lookup"
	StateGuestRegistration  PurchaseState = "guest_registration"
	StateInvoiceCreating    PurchaseState = "invoice_creating"
	StateInvoiceReview      PurchaseState = "invoice_review"
	StatePaymentRedirecting PurchaseState = "payment_redirecting"
	StateResultReady        PurchaseState = "result_ready"
)

// PurchaseSession is the mutable aggregate the orchestrator drives, one
// per browser context. Created on plan selection, destroyed on explicit
// close or when a terminal outcome is acknowledged.
//
// Generation tags async work: a result is applied only if the session
// still carries the generation it was issued under, so work that resolves
// after a close never touches a cleared or recreated session.
type PurchaseSession struct {
	ID         string
	Generation string
	State      PurchaseState

	PlanID             string
	Phone              string
	Verified           bool
	VerificationHandle string // opaque provider handle; never persisted

	CustomerID string
	Guest      *CustomerProfile
	InvoiceID  string
	Invoice    *InvoiceDetail
	Outcome    *PaymentOutcome

	SelectedAt time.Time
	UpdatedAt  time.Time
}

// ModalVisible reports whether the entry modal is open for this session.
// The payment outcome modal (ResultReady) takes precedence and closes it.
func (s *PurchaseSession) ModalVisible() bool {
	switch s.State {
	case StateIdle, StateResultReady:
		return false
	default:
		return true
	}
}
