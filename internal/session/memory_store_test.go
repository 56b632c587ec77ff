package session

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Save(ctx, "h", Principal{UserID: "u1", Name: "Rocky"}, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := store.Lookup(ctx, "h")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got.UserID != "u1" {
		t.Errorf("UserID = %q, want u1", got.UserID)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.Save(ctx, "h", Principal{UserID: "u1"}, time.Now().Add(-time.Second))
	if _, err := store.Lookup(ctx, "h"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for expired session, got %v", err)
	}
}

func TestMemoryStoreRevoke(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.Save(ctx, "h", Principal{UserID: "u1"}, time.Now().Add(time.Hour))
	_ = store.Revoke(ctx, "h")
	if _, err := store.Lookup(ctx, "h"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after revoke, got %v", err)
	}
}
