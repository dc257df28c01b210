// File: internal/usecase/customer_resolver.go
package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"membership-checkout/internal/domain"
	"membership-checkout/internal/domain/model"
	"membership-checkout/internal/domain/ports/adapter"
	"membership-checkout/internal/infra/logging"
	"membership-checkout/internal/infra/metrics"
)

// Compile-time check
var _ CustomerResolver = (*customerResolver)(nil)

type CustomerResolver interface {
	// Resolve looks the phone up in the registry. Zero matches is the
	// expected registration branch and surfaces domain.ErrNotFound; with
	// one or more matches the first record wins.
	Resolve(ctx context.Context, phone string) (*model.CustomerRecord, error)
	// Register creates a new registry record from the four required
	// profile fields.
	Register(ctx context.Context, phone, firstName, lastName, gender string) (*model.CustomerRecord, error)
}

type customerResolver struct {
	registry adapter.CustomerRegistry
	log      *zerolog.Logger
}

func NewCustomerResolver(registry adapter.CustomerRegistry, logger *zerolog.Logger) *customerResolver {
	return &customerResolver{registry: registry, log: logger}
}

func (r *customerResolver) Resolve(ctx context.Context, phone string) (*model.CustomerRecord, error) {
	records, err := r.registry.SearchByPhone(ctx, phone)
	if err != nil {
		metrics.IncGuestLookup("error")
		return nil, err
	}
	if len(records) == 0 {
		metrics.IncGuestLookup("not_found")
		return nil, fmt.Errorf("%w: customer with phone %s", domain.ErrNotFound, logging.Redact(phone))
	}
	metrics.IncGuestLookup("found")
	return records[0], nil
}

func (r *customerResolver) Register(ctx context.Context, phone, firstName, lastName, gender string) (*model.CustomerRecord, error) {
	g, err := model.ParseGender(gender)
	if err != nil {
		return nil, err
	}
	profile, err := model.NewCustomerProfile(firstName, lastName, phone, g)
	if err != nil {
		return nil, err
	}

	record, err := r.registry.Create(ctx, profile)
	if err != nil {
		return nil, err
	}
	r.log.Info().Str("customer_id", record.ID).Msg("customer registered")
	return record, nil
}
