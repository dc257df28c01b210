package model

// InvoiceDetail is the enriched invoice view fetched after creation:
// invoice + first line item + guest snapshot. Read-only once fetched; it
// drives both the confirmation view and the payment request.
type InvoiceDetail struct {
	InvoiceID  string  `json:"invoice_id"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Phone      string  `json:"phone"`
	ItemName   string  `json:"item_name"`
	NetPrice   float64 `json:"net_price"`
	Tax        float64 `json:"tax"`
	FinalPrice float64 `json:"final_price"`
}
