package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"membership-checkout/internal/domain"
	"membership-checkout/internal/domain/model"
	"membership-checkout/internal/domain/ports/repository"
)

var _ repository.SessionStore = (*SessionStore)(nil)

// SessionStore persists resumable purchase snapshots so a flow survives
// the payment-gateway round trip. Two keys per session, mirroring the
// snapshot shape: the guest profile and the modal-visibility flag. Only
// that shape is ever written; OTP handles and payment secrets stay out.
type SessionStore struct {
	client RedisClient
	ttl    time.Duration
}

func NewSessionStore(client RedisClient, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 15 * time.Minute // enough to complete the gateway round trip
	}
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) guestKey(sessionID string) string {
	return fmt.Sprintf("purchase:guest_info:%s", sessionID)
}

func (s *SessionStore) modalKey(sessionID string) string {
	return fmt.Sprintf("purchase:modal_visible:%s", sessionID)
}

// Save overwrites the whole snapshot. A nil guest removes the guest key
// rather than writing an empty record.
func (s *SessionStore) Save(ctx context.Context, sessionID string, snap *repository.SessionSnapshot) error {
	if snap.Guest != nil {
		data, err := json.Marshal(snap.Guest)
		if err != nil {
			return err
		}
		if err := s.client.Set(ctx, s.guestKey(sessionID), data, s.ttl); err != nil {
			return err
		}
	} else {
		if err := s.client.Del(ctx, s.guestKey(sessionID)); err != nil {
			return err
		}
	}
	return s.client.Set(ctx, s.modalKey(sessionID), strconv.FormatBool(snap.ModalVisible), s.ttl)
}

// Load returns domain.ErrNotFound when nothing was ever saved (or the
// snapshot expired).
func (s *SessionStore) Load(ctx context.Context, sessionID string) (*repository.SessionSnapshot, error) {
	snap := &repository.SessionSnapshot{}

	modal, err := s.client.Get(ctx, s.modalKey(sessionID))
	switch {
	case err == nil:
		snap.ModalVisible = modal == "true"
	case errors.Is(err, Nil):
		// fall through; the guest key decides whether anything exists
	default:
		return nil, err
	}

	guest, gerr := s.client.Get(ctx, s.guestKey(sessionID))
	switch {
	case gerr == nil:
		var profile model.CustomerProfile
		if err := json.Unmarshal([]byte(guest), &profile); err != nil {
			return nil, err
		}
		snap.Guest = &profile
	case errors.Is(gerr, Nil):
		if errors.Is(err, Nil) {
			return nil, domain.ErrNotFound
		}
	default:
		return nil, gerr
	}

	return snap, nil
}

func (s *SessionStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.guestKey(sessionID), s.modalKey(sessionID))
}
