// Package payment implements the hosted-gateway handoff. The gateway has
// no verify API; the outcome comes back only on the redirect query string.
package payment

import (
	"bytes"
	"crypto/sha512"
	"encoding/hex"
	"html/template"
	"strconv"
	"strings"

	"membership-checkout/internal/config"
	"membership-checkout/internal/domain/model"
	"membership-checkout/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*PayUGateway)(nil)

// HashRequest computes the integrity hash the gateway recomputes on its
// side. The pipe-delimited field order and the five empty trailing slots
// are byte-for-byte contract; do not reorder.
func HashRequest(req *model.PaymentRequest, salt string) string {
	fields := []string{
		req.Key, req.TxnID, req.Amount, req.ProductInfo, req.FirstName,
		req.Email, req.UDF1, req.UDF2, req.UDF3, req.UDF4, req.UDF5,
		"", "", "", "", "", salt,
	}
	sum := sha512.Sum512([]byte(strings.Join(fields, "|")))
	return hex.EncodeToString(sum[:])
}

type PayUGateway struct {
	key        string
	salt       string
	gatewayURL string
	successURL string
	failureURL string
}

func NewPayUGateway(cfg config.PayUConfig) *PayUGateway {
	return &PayUGateway{
		key:        cfg.Key,
		salt:       cfg.Salt,
		gatewayURL: cfg.GatewayURL,
		successURL: cfg.SuccessURL,
		failureURL: cfg.FailureURL,
	}
}

func (g *PayUGateway) Name() string { return "payu" }

// returnURL appends the session id so the redirect back can be matched to
// its purchase session even before the pass-through fields are parsed.
func returnURL(base, sessionID string) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "sid=" + sessionID
}

// BuildRequest assembles one handoff. Amount uses the shortest decimal
// rendering of the invoice total, matching what the gateway hashed against
// historically. Email stays empty; the session id rides in udf1.
func (g *PayUGateway) BuildRequest(detail *model.InvoiceDetail, phone, sessionID string) *model.PaymentRequest {
	req := &model.PaymentRequest{
		Key:         g.key,
		TxnID:       detail.InvoiceID,
		Amount:      strconv.FormatFloat(detail.FinalPrice, 'f', -1, 64),
		ProductInfo: detail.ItemName,
		FirstName:   detail.FirstName,
		Email:       "",
		Phone:       phone,
		UDF1:        sessionID,
		Salt:        g.salt,
		SuccessURL:  returnURL(g.successURL, sessionID),
		FailureURL:  returnURL(g.failureURL, sessionID),
	}
	req.Hash = HashRequest(req, g.salt)
	return req
}

var formTmpl = template.Must(template.New("payu_form").Parse(`<!DOCTYPE html>
<html>
<head><title>Redirecting to payment</title></head>
<body onload="document.forms[0].submit()">
<p>Redirecting to the payment gateway&hellip;</p>
<form action="{{.Action}}" method="POST">
{{- range .Fields}}
<input type="hidden" name="{{.Name}}" value="{{.Value}}">
{{- end}}
<noscript><button type="submit">Continue to payment</button></noscript>
</form>
</body>
</html>
`))

type formField struct {
	Name  string
	Value string
}

// FormDocument renders the auto-submitting POST page. Serving this page is
// the one-way exit from the running session; control returns only via the
// gateway's redirect to surl or furl.
func (g *PayUGateway) FormDocument(req *model.PaymentRequest) ([]byte, error) {
	fields := []formField{
		{"key", req.Key},
		{"txnid", req.TxnID},
		{"amount", req.Amount},
		{"productinfo", req.ProductInfo},
		{"firstname", req.FirstName},
		{"email", req.Email},
		{"phone", req.Phone},
		{"udf1", req.UDF1},
		{"udf2", req.UDF2},
		{"udf3", req.UDF3},
		{"udf4", req.UDF4},
		{"udf5", req.UDF5},
		{"salt", req.Salt},
		{"surl", req.SuccessURL},
		{"furl", req.FailureURL},
		{"hash", req.Hash},
	}

	var buf bytes.Buffer
	if err := formTmpl.Execute(&buf, struct {
		Action string
		Fields []formField
	}{Action: g.gatewayURL, Fields: fields}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
