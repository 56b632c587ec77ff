// Package catalog is the static shop catalog collaborator. The ledger engine
// never consults prices — debiting is the caller's own balance write — so
// this data is read-only reference for clients.
package catalog

// Entry is one purchasable cosmetic. Price is in diamonds.
type Entry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Category string `json:"category"`
}

var entries = []Entry{
	{ID: "beanie", Name: "Beanie", Price: 250, Category: "hats"},
	{ID: "cowboy-hat", Name: "Cowboy Hat", Price: 180, Category: "hats"},
	{ID: "top-hat", Name: "Top Hat", Price: 320, Category: "hats"},
	{ID: "baseball-cap", Name: "Baseball Cap", Price: 120, Category: "hats"},
	{ID: "sunglasses", Name: "Sunglasses", Price: 200, Category: "glasses"},
	{ID: "monocle", Name: "Monocle", Price: 260, Category: "glasses"},
}

// Entries returns the full catalog in display order.
func Entries() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Lookup returns the entry with the given id.
func Lookup(id string) (Entry, bool) {
	for _, entry := range entries {
		if entry.ID == id {
			return entry, true
		}
	}
	return Entry{}, false
}
