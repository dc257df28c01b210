package model

type InvoiceStatus string

const (
	InvoiceStatusClosed  InvoiceStatus = "closed"
	InvoiceStatusPending InvoiceStatus = "pending"
)

// PaymentRequest is the exact field set posted to the gateway. Constructed
// once per handoff, never reused; field order in the integrity hash is
// part of the external contract.
type PaymentRequest struct {
	Key         string
	TxnID       string // invoice id
	Amount      string
	ProductInfo string
	FirstName   string
	Email       string
	Phone       string
	UDF1        string // carries the purchase session id across the redirect
	UDF2        string
	UDF3        string
	UDF4        string
	UDF5        string
	Salt        string
	SuccessURL  string
	FailureURL  string
	Hash        string
}

// PaymentOutcome is derived purely from the gateway's redirect-back query
// parameters. Ephemeral; cleared when the visitor acknowledges it.
type PaymentOutcome struct {
	Status        string        `json:"status"` // success | failure
	ErrorMessage  string        `json:"error_message,omitempty"`
	ProductInfo   string        `json:"productinfo,omitempty"`
	Amount        string        `json:"amount,omitempty"`
	InvoiceStatus InvoiceStatus `json:"invoice_status"`
}

func (o *PaymentOutcome) Succeeded() bool { return o.Status == "success" }
