//go:build !integration

package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"membership-checkout/internal/domain"
	"membership-checkout/internal/domain/model"
	"membership-checkout/internal/retry"
)

func newCatalog(source *mockCatalogSource, ttl time.Duration) *catalogUC {
	logger := zerolog.Nop()
	policy := retry.Policy{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		Sleep:      func(ctx context.Context, d time.Duration) error { return nil },
	}
	return NewCatalogUseCase(source, policy, ttl, &logger)
}

func TestCatalogPlans(t *testing.T) {
	ctx := context.Background()

	t.Run("should sort and enrich fetched plans", func(t *testing.T) {
		source := &mockCatalogSource{
			ListMembershipsFn: func(ctx context.Context) ([]*model.MembershipPlan, error) {
				return []*model.MembershipPlan{
					{ID: "b", Name: "Gold", SalePrice: 25000, ValidityMonths: 1, DiscountPercent: 5},
					{ID: "a", Name: "Silver", SalePrice: 15000},
					{ID: "c", Name: "Odd", SalePrice: 17500, ValidityMonths: 7, DiscountPercent: 10},
				}, nil
			},
		}
		uc := newCatalog(source, time.Hour)

		plans, err := uc.Plans(ctx)
		if err != nil {
			t.Fatalf("plans: %v", err)
		}
		if len(plans) != 3 {
			t.Fatalf("expected 3 plans, got %d", len(plans))
		}
		if plans[0].ID != "a" || plans[1].ID != "c" || plans[2].ID != "b" {
			t.Errorf("expected price ascending order, got %v %v %v", plans[0].ID, plans[1].ID, plans[2].ID)
		}
		if plans[0].ValidityMonths != 6 || plans[0].DiscountPercent != 35 {
			t.Errorf("expected 15000 tier enrichment, got %+v", plans[0])
		}
		if plans[2].ValidityMonths != 12 || plans[2].DiscountPercent != 50 {
			t.Errorf("expected 25000 tier enrichment, got %+v", plans[2])
		}
		if plans[1].ValidityMonths != 7 || plans[1].DiscountPercent != 10 {
			t.Errorf("expected unmapped price to pass through, got %+v", plans[1])
		}
	})

	t.Run("should retry rate limits and serve the cache afterwards", func(t *testing.T) {
		calls := 0
		source := &mockCatalogSource{
			ListMembershipsFn: func(ctx context.Context) ([]*model.MembershipPlan, error) {
				calls++
				if calls <= 2 {
					return nil, fmt.Errorf("%w: catalog", domain.ErrRateLimited)
				}
				return []*model.MembershipPlan{{ID: "a", SalePrice: 15000}}, nil
			},
		}
		uc := newCatalog(source, time.Hour)

		if _, err := uc.Plans(ctx); err != nil {
			t.Fatalf("plans: %v", err)
		}
		if calls != 3 {
			t.Errorf("expected 3 attempts, got %d", calls)
		}
		if _, err := uc.Plans(ctx); err != nil {
			t.Fatalf("cached plans: %v", err)
		}
		if calls != 3 {
			t.Errorf("expected the cache to serve the second read, got %d calls", calls)
		}
	})

	t.Run("should serve stale plans when a refresh fails", func(t *testing.T) {
		healthy := true
		source := &mockCatalogSource{
			ListMembershipsFn: func(ctx context.Context) ([]*model.MembershipPlan, error) {
				if !healthy {
					return nil, fmt.Errorf("%w: catalog down", domain.ErrProvider)
				}
				return []*model.MembershipPlan{{ID: "a", SalePrice: 15000}}, nil
			},
		}
		uc := newCatalog(source, time.Nanosecond)

		if _, err := uc.Plans(ctx); err != nil {
			t.Fatalf("plans: %v", err)
		}
		healthy = false
		plans, err := uc.Plans(ctx)
		if err != nil {
			t.Fatalf("expected stale plans, got %v", err)
		}
		if len(plans) != 1 {
			t.Errorf("expected 1 stale plan, got %d", len(plans))
		}
	})

	t.Run("should surface exhaustion as unavailable", func(t *testing.T) {
		source := &mockCatalogSource{
			ListMembershipsFn: func(ctx context.Context) ([]*model.MembershipPlan, error) {
				return nil, fmt.Errorf("%w: catalog", domain.ErrRateLimited)
			},
		}
		uc := newCatalog(source, time.Hour)
		if _, err := uc.Plans(ctx); !errors.Is(err, domain.ErrUnavailable) {
			t.Fatalf("expected ErrUnavailable, got %v", err)
		}
	})
}

func TestCatalogFind(t *testing.T) {
	ctx := context.Background()
	source := &mockCatalogSource{
		ListMembershipsFn: func(ctx context.Context) ([]*model.MembershipPlan, error) {
			return []*model.MembershipPlan{{ID: "a", SalePrice: 15000}}, nil
		},
	}
	uc := newCatalog(source, time.Hour)

	plan, err := uc.Find(ctx, "a")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if plan.ID != "a" {
		t.Errorf("expected plan a, got %+v", plan)
	}
	if _, err := uc.Find(ctx, "zzz"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
