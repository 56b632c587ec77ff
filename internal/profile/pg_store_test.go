package profile

import (
	"context"
	"errors"
	"os"
	"testing"

	"petrock/internal/ledger"
)

// Integration test; needs a reachable Postgres.
func openTestPG(t *testing.T) *PGStore {
	t.Helper()
	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping Postgres integration test")
	}
	store, err := OpenPG(context.Background(), databaseURL)
	if err != nil {
		t.Fatalf("OpenPG: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestPGStoreRoundTrip(t *testing.T) {
	store := openTestPG(t)
	ctx := context.Background()
	userID := "it-user-roundtrip"

	l, err := store.Get(ctx, userID)
	if err != nil {
		t.Fatalf("Get fresh: %v", err)
	}
	if l.Diamonds != 0 {
		t.Fatalf("fresh user should have zero ledger, got %+v", l)
	}

	want := ledger.Ledger{
		Diamonds:  120,
		Todos:     []ledger.Todo{{ID: 1700000000001, Text: "Go on a walk", Diamonds: 12}},
		Inventory: []ledger.Item{{ID: "top-hat", Category: "hats"}},
	}
	if err := store.Put(ctx, userID, want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Diamonds != 120 || len(got.Todos) != 1 || got.Todos[0].Text != "Go on a walk" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestPGStoreConditionalWrite(t *testing.T) {
	store := openTestPG(t)
	ctx := context.Background()
	userID := "it-user-conditional"

	_ = store.Put(ctx, userID, ledger.Ledger{Diamonds: 1})
	_, version, err := store.GetVersioned(ctx, userID)
	if err != nil {
		t.Fatalf("GetVersioned: %v", err)
	}

	if err := store.PutIfVersion(ctx, userID, ledger.Ledger{Diamonds: 2}, version); err != nil {
		t.Fatalf("conditional put: %v", err)
	}
	if err := store.PutIfVersion(ctx, userID, ledger.Ledger{Diamonds: 3}, version); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}
