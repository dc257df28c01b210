package adapter

import (
	"context"

	"membership-checkout/internal/domain/model"
)

// CustomerRegistry is the hex port for the guest registry.
type CustomerRegistry interface {
	// SearchByPhone returns all records matching the local-format phone
	// number. An empty slice is not an error.
	SearchByPhone(ctx context.Context, phone string) ([]*model.CustomerRecord, error)
	// Create registers a new customer and returns the stored record.
	Create(ctx context.Context, profile *model.CustomerProfile) (*model.CustomerRecord, error)
}
