// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"membership-checkout/internal/config"
	identityAdapter "membership-checkout/internal/infra/adapters/identity"
	payAdapter "membership-checkout/internal/infra/adapters/payment"
	"membership-checkout/internal/infra/adapters/zenoti"
	"membership-checkout/internal/infra/logging"
	"membership-checkout/internal/infra/metrics"
	red "membership-checkout/internal/infra/redis"
	"membership-checkout/internal/infra/sched"
	"membership-checkout/internal/infra/web"
	"membership-checkout/internal/retry"
	"membership-checkout/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logging, no sampling)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	sessionStore := red.NewSessionStore(redisClient, cfg.Redis.TTL)
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Upstream adapters ----
	zenotiClient, err := zenoti.NewClient(cfg.Zenoti, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("zenoti client")
	}
	identityProvider, err := identityAdapter.NewFirebasePhone(cfg.Identity, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("identity provider")
	}
	challenges := identityAdapter.NewStaticChallenge(cfg.Identity.ChallengeToken)
	gateway := payAdapter.NewPayUGateway(cfg.Payment.PayU)

	// ---- Use cases ----
	catalogUC := usecase.NewCatalogUseCase(
		zenotiClient,
		retry.Policy{MaxRetries: cfg.Catalog.MaxRetries, BaseDelay: cfg.Catalog.RetryBaseDelay},
		cfg.Catalog.CacheTTL,
		logger,
	)
	identityUC := usecase.NewIdentityVerifier(
		identityProvider,
		challenges,
		rateLimiter,
		cfg.Identity.CountryPrefix,
		cfg.Identity.SendLimit,
		cfg.Identity.SendWindow,
		logger,
	)
	customerUC := usecase.NewCustomerResolver(zenotiClient, logger)
	invoiceUC := usecase.NewInvoiceCoordinator(zenotiClient, logger)
	purchaseUC := usecase.NewPurchaseUseCase(
		catalogUC,
		identityUC,
		customerUC,
		invoiceUC,
		gateway,
		sessionStore,
		cfg.Purchase.SelectGuardWindow,
		logger,
	)

	// ---- Catalog refresher ----
	refresher := sched.NewCatalogRefresher(catalogUC, cfg.Catalog.RefreshInterval, logger)
	go refresher.Start(ctx)

	// ---- HTTP server ----
	srv := web.NewServer(catalogUC, purchaseUC, logger)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
