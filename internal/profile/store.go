// Package profile is the boundary to the external per-user document store.
// The upstream offers whole-document reads and whole-document writes only: no
// transactions, no field-level update, no compare-and-swap. Every backend here
// preserves those semantics, so concurrent writers can lose updates; callers
// own that trade-off.
package profile

import (
	"context"
	"fmt"

	"petrock/internal/ledger"
)

// Store is the repository contract the ledger coordinator writes through.
type Store interface {
	// Get returns the user's ledger document. A user with no stored document
	// gets the zero ledger, not an error.
	Get(ctx context.Context, userID string) (ledger.Ledger, error)
	// Put replaces the user's whole ledger document, last write wins.
	Put(ctx context.Context, userID string, l ledger.Ledger) error
}

// Conditional is an optional capability for backends that can do versioned
// writes. The coordinator does not use it — adopting it would change the
// documented last-write-wins behavior — but callers wanting compare-and-swap
// can type-assert for it.
type Conditional interface {
	GetVersioned(ctx context.Context, userID string) (ledger.Ledger, int64, error)
	// PutIfVersion writes only if the stored version still matches; version 0
	// means "create, must not exist yet". Returns ErrVersionConflict otherwise.
	PutIfVersion(ctx context.Context, userID string, l ledger.Ledger, version int64) error
}

// UpstreamError wraps any failure talking to or decoding from the profile
// store, so the HTTP layer can map it distinctly from domain errors.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("profile store %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ErrVersionConflict is returned by PutIfVersion when the document moved.
var ErrVersionConflict = fmt.Errorf("ledger version conflict")
