package search

import (
	"context"
	"testing"

	"petrock/internal/ledger"
	"petrock/internal/profile"
)

func seedProfiles(t *testing.T) *profile.MemoryStore {
	t.Helper()
	store := profile.NewMemoryStore()
	err := store.Put(context.Background(), "u1", ledger.Ledger{
		Todos: []ledger.Todo{
			{ID: 1, Text: "Do the dishes", Diamonds: 10},
			{ID: 2, Text: "Do the laundry", Diamonds: 17, Completed: true},
			{ID: 3, Text: "Call grandma", Diamonds: 15},
		},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return store
}

func TestLedgerScanMatchesSubstring(t *testing.T) {
	scan := NewLedgerScan(seedProfiles(t))

	results, total, err := scan.Search(context.Background(), Query{UserID: "u1", Text: "do the"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 2 || len(results) != 2 {
		t.Fatalf("total = %d, results = %d, want 2/2", total, len(results))
	}
}

func TestLedgerScanIsCaseInsensitive(t *testing.T) {
	scan := NewLedgerScan(seedProfiles(t))

	results, _, err := scan.Search(context.Background(), Query{UserID: "u1", Text: "GRANDMA"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].TodoID != 3 {
		t.Fatalf("results = %+v", results)
	}
}

func TestLedgerScanScopedToUser(t *testing.T) {
	scan := NewLedgerScan(seedProfiles(t))

	results, total, err := scan.Search(context.Background(), Query{UserID: "someone-else", Text: "dishes"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 0 || len(results) != 0 {
		t.Fatalf("expected no hits for other user, got %+v", results)
	}
}

func TestLedgerScanHonorsLimit(t *testing.T) {
	scan := NewLedgerScan(seedProfiles(t))

	results, total, err := scan.Search(context.Background(), Query{UserID: "u1", Text: "", Limit: 2})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
}

func TestServiceFallsBackWithoutMeili(t *testing.T) {
	svc := NewService(nil, NewLedgerScan(seedProfiles(t)))

	resp := svc.Search(context.Background(), Query{UserID: "u1", Text: "laundry"})
	if len(resp.Results) != 1 || !resp.Results[0].Completed {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Query != "laundry" {
		t.Fatalf("query echo = %q", resp.Query)
	}
}

func TestServiceReturnsEmptyOnFallbackError(t *testing.T) {
	store := profile.NewMemoryStore()
	store.Corrupt("u1", []byte(`{"todos": 1}`))
	svc := NewService(nil, NewLedgerScan(store))

	resp := svc.Search(context.Background(), Query{UserID: "u1", Text: "x"})
	if resp.Results == nil || len(resp.Results) != 0 {
		t.Fatalf("expected empty non-nil results, got %+v", resp.Results)
	}
}
