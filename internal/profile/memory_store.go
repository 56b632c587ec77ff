package profile

import (
	"context"
	"encoding/json"
	"sync"

	"petrock/internal/ledger"
)

// MemoryStore holds ledgers in process memory. It round-trips documents
// through JSON so it exercises the same decode path as the real backends.
// Used in development when no upstream is configured, and in tests.
type MemoryStore struct {
	mu       sync.Mutex
	docs     map[string]json.RawMessage
	versions map[string]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:     make(map[string]json.RawMessage),
		versions: make(map[string]int64),
	}
}

func (s *MemoryStore) Get(ctx context.Context, userID string) (ledger.Ledger, error) {
	l, _, err := s.GetVersioned(ctx, userID)
	return l, err
}

func (s *MemoryStore) Put(ctx context.Context, userID string, l ledger.Ledger) error {
	raw, err := json.Marshal(l)
	if err != nil {
		return &UpstreamError{Op: "put", Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[userID] = raw
	s.versions[userID]++
	return nil
}

func (s *MemoryStore) GetVersioned(ctx context.Context, userID string) (ledger.Ledger, int64, error) {
	s.mu.Lock()
	raw := s.docs[userID]
	version := s.versions[userID]
	s.mu.Unlock()

	l, err := ledger.Decode(raw)
	if err != nil {
		return ledger.Ledger{}, 0, &UpstreamError{Op: "get", Err: err}
	}
	return l, version, nil
}

func (s *MemoryStore) PutIfVersion(ctx context.Context, userID string, l ledger.Ledger, version int64) error {
	raw, err := json.Marshal(l)
	if err != nil {
		return &UpstreamError{Op: "put", Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.versions[userID] != version {
		return ErrVersionConflict
	}
	s.docs[userID] = raw
	s.versions[userID]++
	return nil
}

// Corrupt stores a raw document verbatim, bypassing the typed write path.
// Test hook for malformed-document handling.
func (s *MemoryStore) Corrupt(userID string, raw json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[userID] = raw
	s.versions[userID]++
}
