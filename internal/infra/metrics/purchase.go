package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		planSelections,
		otpSends,
		otpVerifies,
		guestLookups,
		invoiceCreateLatency,
		paymentHandoffs,
		paymentOutcomes,
		catalogRetries,
		catalogPlans,
	)
}

var (
	planSelections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "purchase_plan_selections_total",
			Help: "Purchase flows started by plan selection (after the double-submit guard).",
		},
	)

	otpSends = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchase_otp_sends_total",
			Help: "OTP send attempts by result (ok/challenge_failed/rate_limited/rejected/error).",
		},
		[]string{"result"},
	)

	otpVerifies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchase_otp_verifies_total",
			Help: "OTP verification attempts by result (ok/failed).",
		},
		[]string{"result"},
	)

	guestLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchase_guest_lookups_total",
			Help: "Guest registry lookups by outcome (found/not_found/error).",
		},
		[]string{"outcome"},
	)

	invoiceCreateLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "purchase_invoice_create_latency_ms",
			Help:    "Invoice creation latency distribution in milliseconds.",
			Buckets: []float64{25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
	)

	paymentHandoffs = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "purchase_payment_handoffs_total",
			Help: "Signed form handoffs served to the payment gateway.",
		},
	)

	paymentOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchase_payment_outcomes_total",
			Help: "Reconciled gateway outcomes by status (success/failure).",
		},
		[]string{"status"},
	)

	catalogRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_fetch_retries_total",
			Help: "Catalog fetch attempts retried after a rate-limit response.",
		},
	)

	catalogPlans = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_plans",
			Help: "Number of plans currently held by the catalog cache.",
		},
	)
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncPlanSelection()          { planSelections.Inc() }
func IncOTPSend(result string)   { otpSends.WithLabelValues(norm(result)).Inc() }
func IncOTPVerify(result string) { otpVerifies.WithLabelValues(norm(result)).Inc() }
func IncGuestLookup(outcome string) {
	guestLookups.WithLabelValues(norm(outcome)).Inc()
}
func ObserveInvoiceCreateMs(ms float64) { invoiceCreateLatency.Observe(ms) }
func IncPaymentHandoff()                { paymentHandoffs.Inc() }
func IncPaymentOutcome(status string)   { paymentOutcomes.WithLabelValues(norm(status)).Inc() }
func IncCatalogRetry()                  { catalogRetries.Inc() }
func SetCatalogPlans(n int)             { catalogPlans.Set(float64(n)) }
