// Package ledger defines the per-user reward document: the diamond balance,
// the todo list, and the cosmetic inventory. The document is owned by the
// external profile store; everything here operates on transient copies.
package ledger

import (
	"encoding/json"
	"fmt"
)

// Todo is a single tracked task. Diamonds is the difficulty score assigned at
// creation and never changes afterwards.
type Todo struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Diamonds  int    `json:"diamonds"`
	Completed bool   `json:"completed"`
}

// Item is an owned cosmetic. At most one item per category may be equipped.
type Item struct {
	ID       string `json:"id"`
	Equipped bool   `json:"equipped"`
	Category string `json:"category"`
}

// Ledger is the whole persisted document for one user. A user with no stored
// document is represented by the zero value.
type Ledger struct {
	Diamonds  int    `json:"diamonds"`
	Todos     []Todo `json:"todos"`
	Inventory []Item `json:"inventory"`
}

// FindTodo returns the index of the todo with the given id, or -1.
func (l *Ledger) FindTodo(id int64) int {
	for i := range l.Todos {
		if l.Todos[i].ID == id {
			return i
		}
	}
	return -1
}

// HasItem reports whether the inventory already contains an item with the id.
func (l *Ledger) HasItem(id string) bool {
	for i := range l.Inventory {
		if l.Inventory[i].ID == id {
			return true
		}
	}
	return false
}

// Decode parses a stored document. Unknown top-level fields are tolerated
// (the profile store is a shared attribute bag), but a structurally malformed
// document is an error rather than a half-parsed ledger.
func Decode(raw json.RawMessage) (Ledger, error) {
	if len(raw) == 0 {
		return Ledger{}, nil
	}
	var l Ledger
	if err := json.Unmarshal(raw, &l); err != nil {
		return Ledger{}, fmt.Errorf("malformed ledger document: %w", err)
	}
	return l, nil
}
