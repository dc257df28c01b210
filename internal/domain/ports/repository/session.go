package repository

import (
	"context"

	"membership-checkout/internal/domain/model"
)

// SessionSnapshot is the only shape ever persisted for a purchase session:
// the guest profile and whether the entry modal is open. OTP handles and
// payment secrets must never reach the durable store.
type SessionSnapshot struct {
	Guest        *model.CustomerProfile `json:"guest_info,omitempty"`
	ModalVisible bool                   `json:"modal_visible"`
}

// SessionStore persists resumable session snapshots across the payment
// gateway round trip. Writes are full-overwrite; the single in-process
// session owns write access (last writer wins across contexts).
type SessionStore interface {
	Save(ctx context.Context, sessionID string, snap *SessionSnapshot) error
	// Load returns domain.ErrNotFound when no snapshot exists.
	Load(ctx context.Context, sessionID string) (*SessionSnapshot, error)
	Clear(ctx context.Context, sessionID string) error
}
