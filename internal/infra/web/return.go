package web

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog"

	"membership-checkout/internal/domain/model"
	"membership-checkout/internal/infra/logging"
	"membership-checkout/internal/usecase"
)

var resultTmpl = template.Must(template.New("payment_result").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Payment {{if .Success}}Successful{{else}}Failed{{end}}</title>
<style>
body { font-family: sans-serif; background:#f4f4f9; display:flex; justify-content:center; align-items:center; height:100vh; margin:0; }
.card { background:#fff; padding:2rem 3rem; border-radius:8px; box-shadow:0 4px 8px rgba(0,0,0,.1); text-align:center; }
h1.ok { color:#28a745; }
h1.fail { color:#dc3545; }
.row { margin:.4rem 0; color:#333; }
.muted { color:#777; font-size:.9rem; margin-top:1.2rem; }
</style>
</head>
<body>
<div class="card">
{{if .Success}}<h1 class="ok">Payment Successful</h1>{{else}}<h1 class="fail">Payment Failed</h1>{{end}}
{{if .Guest}}<div class="row">Name: {{.Guest.FirstName}} {{.Guest.LastName}}</div>{{end}}
{{if .Outcome.ProductInfo}}<div class="row">Membership: {{.Outcome.ProductInfo}}</div>{{end}}
{{if .Outcome.Amount}}<div class="row">Amount: &#8377;{{.Outcome.Amount}}</div>{{end}}
<div class="row">Invoice status: {{.Outcome.InvoiceStatus}}</div>
{{if .Outcome.ErrorMessage}}<div class="row">{{.Outcome.ErrorMessage}}</div>{{end}}
<div class="muted">You can close this window.</div>
</div>
</body>
</html>
`))

type resultPage struct {
	Success bool
	Guest   *model.CustomerProfile
	Outcome *model.PaymentOutcome
}

// paymentReturnHandler is the gateway's redirect target. It reconciles the
// query-string outcome into the session and renders the result page.
func paymentReturnHandler(purchaseUC usecase.PurchaseUseCase, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		sessionID := query.Get("sid")
		if sessionID == "" {
			sessionID = query.Get("udf1")
		}
		if sessionID == "" || query.Get("status") == "" {
			http.Error(w, "missing payment result parameters", http.StatusBadRequest)
			return
		}

		ctx := logging.WithSessID(r.Context(), sessionID)
		s, err := purchaseUC.Reconcile(ctx, sessionID, query)
		if err != nil {
			logger.Error().Err(err).Str("session_id", sessionID).Msg("payment reconciliation failed")
			http.Error(w, "payment reconciliation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := resultTmpl.Execute(w, resultPage{
			Success: s.Outcome.Succeeded(),
			Guest:   s.Guest,
			Outcome: s.Outcome,
		}); err != nil {
			logger.Error().Err(err).Msg("result page render failed")
		}
	}
}
