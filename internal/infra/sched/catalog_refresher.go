package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"membership-checkout/internal/usecase"
)

// CatalogRefresher keeps the plan cache warm so the storefront never pays
// the upstream fetch (or its retry schedule) on a visitor request.
type CatalogRefresher struct {
	uc       usecase.CatalogUseCase
	interval time.Duration
	log      *zerolog.Logger
}

func NewCatalogRefresher(uc usecase.CatalogUseCase, interval time.Duration, logger *zerolog.Logger) *CatalogRefresher {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &CatalogRefresher{uc: uc, interval: interval, log: logger}
}

func (w *CatalogRefresher) Start(ctx context.Context) {
	w.tick(ctx)
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *CatalogRefresher) tick(ctx context.Context) {
	if err := w.uc.Refresh(ctx); err != nil {
		w.log.Warn().Err(err).Msg("catalog refresh failed")
	}
}
