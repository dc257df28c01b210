package adapter

import "membership-checkout/internal/domain/model"

// PaymentGateway builds the signed one-way handoff to the hosted payment
// page. There is no verify call: the gateway reports the result only via
// the redirect-back query parameters.
type PaymentGateway interface {
	Name() string
	// BuildRequest assembles the form field set for one handoff, including
	// the integrity hash. sessionID rides along in a pass-through field so
	// the return redirect can be matched to its session.
	BuildRequest(detail *model.InvoiceDetail, phone, sessionID string) *model.PaymentRequest
	// FormDocument renders the auto-submitting POST form page. Serving it
	// is the deliberate exit from this application's running state.
	FormDocument(req *model.PaymentRequest) ([]byte, error)
}
