// File: internal/usecase/catalog_uc.go
package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"membership-checkout/internal/domain"
	"membership-checkout/internal/domain/model"
	"membership-checkout/internal/domain/ports/adapter"
	"membership-checkout/internal/infra/metrics"
	"membership-checkout/internal/retry"
)

// Compile-time check
var _ CatalogUseCase = (*catalogUC)(nil)

type CatalogUseCase interface {
	// Plans returns the cached plan list, refreshing it when stale.
	Plans(ctx context.Context) ([]*model.MembershipPlan, error)
	// Refresh fetches the catalog unconditionally and replaces the cache.
	Refresh(ctx context.Context) error
	// Find returns the cached plan with the given id.
	Find(ctx context.Context, planID string) (*model.MembershipPlan, error)
}

type catalogUC struct {
	source adapter.CatalogSource
	policy retry.Policy
	ttl    time.Duration
	log    *zerolog.Logger

	mu        sync.RWMutex
	plans     []*model.MembershipPlan
	fetchedAt time.Time

	now func() time.Time
}

func NewCatalogUseCase(source adapter.CatalogSource, policy retry.Policy, ttl time.Duration, logger *zerolog.Logger) *catalogUC {
	return &catalogUC{
		source: source,
		policy: policy,
		ttl:    ttl,
		log:    logger,
		now:    time.Now,
	}
}

func (u *catalogUC) Plans(ctx context.Context) ([]*model.MembershipPlan, error) {
	u.mu.RLock()
	plans, fetchedAt := u.plans, u.fetchedAt
	u.mu.RUnlock()

	if plans != nil && u.now().Sub(fetchedAt) < u.ttl {
		return plans, nil
	}
	if err := u.Refresh(ctx); err != nil {
		// Stale plans beat an empty storefront.
		if plans != nil {
			u.log.Warn().Err(err).Msg("catalog refresh failed, serving stale plans")
			return plans, nil
		}
		return nil, err
	}

	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.plans, nil
}

func (u *catalogUC) Refresh(ctx context.Context) error {
	var fetched []*model.MembershipPlan
	attempt := 0
	err := u.policy.Do(ctx, func(ctx context.Context) error {
		if attempt > 0 {
			metrics.IncCatalogRetry()
		}
		attempt++
		var err error
		fetched, err = u.source.ListMemberships(ctx)
		return err
	})
	if err != nil {
		return err
	}

	for _, p := range fetched {
		p.ApplyPriceBenefits()
	}
	model.SortPlansByPrice(fetched)

	u.mu.Lock()
	u.plans = fetched
	u.fetchedAt = u.now()
	u.mu.Unlock()

	metrics.SetCatalogPlans(len(fetched))
	u.log.Debug().Int("plans", len(fetched)).Msg("catalog refreshed")
	return nil
}

func (u *catalogUC) Find(ctx context.Context, planID string) (*model.MembershipPlan, error) {
	plans, err := u.Plans(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range plans {
		if p.ID == planID {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: membership plan %s", domain.ErrNotFound, planID)
}
