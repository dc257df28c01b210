package adapter

import (
	"context"

	"membership-checkout/internal/domain/model"
)

// CatalogSource is the hex port for the upstream plan catalog.
// Implementations return domain.ErrRateLimited on a 429 so the caller's
// retry policy can classify it.
type CatalogSource interface {
	ListMemberships(ctx context.Context) ([]*model.MembershipPlan, error)
}
