//go:build !integration

package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"membership-checkout/internal/config"
	"membership-checkout/internal/domain"
	"membership-checkout/internal/domain/model"
	"membership-checkout/internal/domain/ports/repository"
)

func newTestStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewClient(context.Background(), &config.RedisConfig{URL: mr.Addr()})
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStore(client, time.Minute), mr
}

func TestSessionStore(t *testing.T) {
	ctx := context.Background()

	t.Run("should round-trip a guest snapshot", func(t *testing.T) {
		store, _ := newTestStore(t)

		guest := &model.CustomerProfile{FirstName: "Asha", LastName: "Rao", Phone: "9876543210", Gender: model.GenderFemale}
		if err := store.Save(ctx, "sess-1", &repository.SessionSnapshot{Guest: guest, ModalVisible: true}); err != nil {
			t.Fatalf("save: %v", err)
		}

		snap, err := store.Load(ctx, "sess-1")
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if snap.Guest == nil || *snap.Guest != *guest {
			t.Errorf("expected guest %+v, got %+v", guest, snap.Guest)
		}
		if !snap.ModalVisible {
			t.Error("expected modal visibility to persist")
		}
	})

	t.Run("should remove the guest key when the guest is cleared", func(t *testing.T) {
		store, mr := newTestStore(t)

		guest := &model.CustomerProfile{FirstName: "Asha", LastName: "Rao", Phone: "9876543210", Gender: model.GenderFemale}
		if err := store.Save(ctx, "sess-1", &repository.SessionSnapshot{Guest: guest, ModalVisible: true}); err != nil {
			t.Fatalf("save: %v", err)
		}
		if err := store.Save(ctx, "sess-1", &repository.SessionSnapshot{Guest: nil, ModalVisible: false}); err != nil {
			t.Fatalf("overwrite: %v", err)
		}

		if mr.Exists("purchase:guest_info:sess-1") {
			t.Error("expected guest key to be removed")
		}
		snap, err := store.Load(ctx, "sess-1")
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if snap.Guest != nil || snap.ModalVisible {
			t.Errorf("expected empty snapshot, got %+v", snap)
		}
	})

	t.Run("should report not found for unknown sessions", func(t *testing.T) {
		store, _ := newTestStore(t)
		if _, err := store.Load(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("should clear both keys", func(t *testing.T) {
		store, mr := newTestStore(t)
		guest := &model.CustomerProfile{FirstName: "Asha", LastName: "Rao", Phone: "9876543210", Gender: model.GenderFemale}
		if err := store.Save(ctx, "sess-9", &repository.SessionSnapshot{Guest: guest, ModalVisible: true}); err != nil {
			t.Fatalf("save: %v", err)
		}
		if err := store.Clear(ctx, "sess-9"); err != nil {
			t.Fatalf("clear: %v", err)
		}
		if mr.Exists("purchase:guest_info:sess-9") || mr.Exists("purchase:modal_visible:sess-9") {
			t.Error("expected both keys removed")
		}
		if _, err := store.Load(ctx, "sess-9"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound after clear, got %v", err)
		}
	})
}

func TestRateLimiter(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client, err := NewClient(ctx, &config.RedisConfig{URL: mr.Addr()})
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer client.Close()

	rl := NewRateLimiter(client)
	key := OTPSendKey("9876543210")
	for i := 0; i < 3; i++ {
		ok, err := rl.Allow(ctx, key, 3, time.Minute)
		if err != nil || !ok {
			t.Fatalf("attempt %d: expected allowed, got ok=%v err=%v", i+1, ok, err)
		}
	}
	ok, err := rl.Allow(ctx, key, 3, time.Minute)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if ok {
		t.Error("expected 4th attempt to be blocked")
	}
}
