package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"petrock/internal/ledger"
)

// PGStore keeps each user's ledger as one jsonb document in a single row,
// preserving the upstream's whole-document read/write contract. The version
// column backs the optional Conditional capability.
type PGStore struct {
	db *sql.DB
}

func OpenPG(ctx context.Context, databaseURL string) (*PGStore, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(20)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	store := &PGStore{db: db}
	if err := store.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *PGStore) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS ledgers (
			user_id    TEXT PRIMARY KEY,
			doc        JSONB NOT NULL,
			version    BIGINT NOT NULL DEFAULT 1,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure ledgers table: %w", err)
	}
	return nil
}

func (s *PGStore) Close() error { return s.db.Close() }

func (s *PGStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *PGStore) Get(ctx context.Context, userID string) (ledger.Ledger, error) {
	l, _, err := s.GetVersioned(ctx, userID)
	return l, err
}

func (s *PGStore) GetVersioned(ctx context.Context, userID string) (ledger.Ledger, int64, error) {
	var raw []byte
	var version int64
	err := s.db.QueryRowContext(ctx, `SELECT doc, version FROM ledgers WHERE user_id=$1`, userID).Scan(&raw, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Ledger{}, 0, nil
	}
	if err != nil {
		return ledger.Ledger{}, 0, &UpstreamError{Op: "get", Err: err}
	}

	l, err := ledger.Decode(raw)
	if err != nil {
		return ledger.Ledger{}, 0, &UpstreamError{Op: "get", Err: err}
	}
	return l, version, nil
}

func (s *PGStore) Put(ctx context.Context, userID string, l ledger.Ledger) error {
	raw, err := json.Marshal(l)
	if err != nil {
		return &UpstreamError{Op: "put", Err: err}
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO ledgers (user_id, doc)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET doc=EXCLUDED.doc, version=ledgers.version+1, updated_at=NOW()
	`, userID, raw)
	if err != nil {
		return &UpstreamError{Op: "put", Err: err}
	}
	return nil
}

func (s *PGStore) PutIfVersion(ctx context.Context, userID string, l ledger.Ledger, version int64) error {
	raw, err := json.Marshal(l)
	if err != nil {
		return &UpstreamError{Op: "put", Err: err}
	}

	var result sql.Result
	if version == 0 {
		result, err = s.db.ExecContext(ctx, `
			INSERT INTO ledgers (user_id, doc)
			VALUES ($1, $2)
			ON CONFLICT (user_id) DO NOTHING
		`, userID, raw)
	} else {
		result, err = s.db.ExecContext(ctx, `
			UPDATE ledgers SET doc=$2, version=version+1, updated_at=NOW()
			WHERE user_id=$1 AND version=$3
		`, userID, raw, version)
	}
	if err != nil {
		return &UpstreamError{Op: "put", Err: err}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return &UpstreamError{Op: "put", Err: err}
	}
	if affected == 0 {
		return ErrVersionConflict
	}
	return nil
}
