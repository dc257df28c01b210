package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"membership-checkout/internal/infra/logging"
	"membership-checkout/internal/infra/metrics"
	"membership-checkout/internal/usecase"
)

type Server struct {
	catalogUC  usecase.CatalogUseCase
	purchaseUC usecase.PurchaseUseCase
	log        *zerolog.Logger
}

func NewServer(
	catalogUC usecase.CatalogUseCase,
	purchaseUC usecase.PurchaseUseCase,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		catalogUC:  catalogUC,
		purchaseUC: purchaseUC,
		log:        logger,
	}
}

// Router builds the full route tree: the JSON purchase API, the gateway
// return page, and the operational endpoints.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.traceMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/plans", plansHandler(s.catalogUC))
		r.Post("/purchase", purchaseSelectHandler(s.purchaseUC))
		r.Route("/purchase/{sessionID}", func(r chi.Router) {
			r.Use(sessionMiddleware)
			r.Get("/", purchaseGetHandler(s.purchaseUC))
			r.Post("/phone", purchasePhoneHandler(s.purchaseUC))
			r.Post("/otp", purchaseOTPHandler(s.purchaseUC))
			r.Post("/register", purchaseRegisterHandler(s.purchaseUC))
			r.Post("/confirm", purchaseConfirmHandler(s.purchaseUC))
			r.Post("/ack", purchaseAckHandler(s.purchaseUC))
			r.Delete("/", purchaseCloseHandler(s.purchaseUC))
		})
	})

	// The gateway redirects here with the outcome in the query string.
	r.Get("/payment/return", paymentReturnHandler(s.purchaseUC, s.log))

	return r
}

// traceMiddleware tags every request with a trace id for log correlation.
func (s *Server) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Request-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", traceID)
		ctx := logging.WithTraceID(r.Context(), traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionMiddleware puts the route's session id into the context so that
// every log line downstream carries it.
func sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithSessID(r.Context(), chi.URLParam(r, "sessionID"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
