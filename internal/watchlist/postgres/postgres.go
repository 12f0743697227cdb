// Package postgres is the Postgres-backed watchlist.Store.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"tickerwatch/internal/market"
	"tickerwatch/internal/watchlist"
)

const schema = `
CREATE TABLE IF NOT EXISTS watchlist_entries (
	id UUID PRIMARY KEY,
	owner TEXT NOT NULL,
	symbol VARCHAR(20) NOT NULL,
	asset_type VARCHAR(10) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_watchlist_owner_symbol_type ON watchlist_entries(owner, symbol, asset_type);
CREATE INDEX IF NOT EXISTS idx_watchlist_owner_created ON watchlist_entries(owner, created_at);
`

const insertOrFetch = `
WITH ins AS (
	INSERT INTO watchlist_entries (id, owner, symbol, asset_type, created_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (owner, symbol, asset_type) DO NOTHING
	RETURNING id, created_at
)
SELECT id, created_at FROM ins
UNION ALL
SELECT id, created_at FROM watchlist_entries WHERE owner = $2 AND symbol = $3 AND asset_type = $4
LIMIT 1`

const selectOne = `SELECT id, created_at FROM watchlist_entries WHERE owner = $1 AND symbol = $2 AND asset_type = $3`

// Options tunes the connection pool. Zero values keep database/sql defaults.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ watchlist.Store = (*Store)(nil)

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string, opts Options) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return New(db), nil
}

// New wraps an existing handle.
func New(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) InitSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Add inserts the entry or returns the one already stored, in one statement.
func (s *Store) Add(ctx context.Context, owner, symbol string, typ market.AssetType) (watchlist.Entry, error) {
	e := watchlist.Entry{Owner: owner, Symbol: symbol, Type: typ}
	err := s.db.QueryRowContext(ctx, insertOrFetch, uuid.New(), owner, symbol, string(typ), s.now().UTC()).
		Scan(&e.ID, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// A concurrent insert committed after our snapshot; it is visible now.
		err = s.db.QueryRowContext(ctx, selectOne, owner, symbol, string(typ)).Scan(&e.ID, &e.CreatedAt)
	}
	if err != nil {
		return watchlist.Entry{}, fmt.Errorf("insert entry: %w", err)
	}
	e.CreatedAt = e.CreatedAt.UTC()
	return e, nil
}

func (s *Store) Remove(ctx context.Context, owner, symbol string, typ market.AssetType) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM watchlist_entries WHERE owner = $1 AND symbol = $2 AND asset_type = $3`,
		owner, symbol, string(typ))
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, owner string) ([]watchlist.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, symbol, asset_type, created_at FROM watchlist_entries WHERE owner = $1 ORDER BY created_at, symbol`,
		owner)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	out := make([]watchlist.Entry, 0)
	for rows.Next() {
		var (
			e   = watchlist.Entry{Owner: owner}
			typ string
		)
		if err := rows.Scan(&e.ID, &e.Symbol, &typ, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if e.Type, err = market.ParseAssetType(typ); err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.ID, err)
		}
		e.CreatedAt = e.CreatedAt.UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return out, nil
}

func (s *Store) Purge(ctx context.Context, owner string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM watchlist_entries WHERE owner = $1`, owner); err != nil {
		return fmt.Errorf("purge entries: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.db.Close() }
