// Package session provides storage backends for active sessions, keyed by
// token hash. Redis is the production backend; the in-process store covers
// development and tests.
package session

import (
	"context"
	"errors"
	"time"
)

// Principal is the identity attached to a stored session.
type Principal struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

var ErrNotFound = errors.New("session not found or expired")

// Store is the session storage contract used by the service layer.
type Store interface {
	Save(ctx context.Context, tokenHash string, principal Principal, expiresAt time.Time) error
	Lookup(ctx context.Context, tokenHash string) (Principal, error)
	Revoke(ctx context.Context, tokenHash string) error
	Ping(ctx context.Context) error
	Close() error
}
