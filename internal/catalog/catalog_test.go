package catalog

import "testing"

func TestLookup(t *testing.T) {
	entry, ok := Lookup("beanie")
	if !ok {
		t.Fatalf("expected beanie in catalog")
	}
	if entry.Price != 250 || entry.Category != "hats" {
		t.Fatalf("unexpected entry %+v", entry)
	}

	if _, ok := Lookup("jetpack"); ok {
		t.Fatalf("unexpected catalog hit")
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	first := Entries()
	first[0].Price = 1
	if Entries()[0].Price == 1 {
		t.Fatalf("Entries must not expose internal state")
	}
}
