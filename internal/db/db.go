// Package db provides PostgreSQL storage for the response cache and run history.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/pokedex/internal/cache"
)

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

const schema = `
CREATE TABLE IF NOT EXISTS cache_entries (
    id         BIGSERIAL PRIMARY KEY,
    url        TEXT NOT NULL UNIQUE,
    body       TEXT NOT NULL,
    fetched_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS generation_runs (
    id           UUID PRIMARY KEY,
    entry_count  INTEGER NOT NULL,
    status       TEXT NOT NULL,
    fetches      INTEGER NOT NULL DEFAULT 0,
    hits         INTEGER NOT NULL DEFAULT 0,
    started_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    completed_at TIMESTAMPTZ
);`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Run is one recorded generation run.
type Run struct {
	ID          uuid.UUID
	EntryCount  int
	Status      string
	Fetches     int
	Hits        int
	StartedAt   time.Time
	CompletedAt *time.Time
}

// Connect establishes a connection pool to the database and ensures the schema exists.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Load returns every cached response in first-stored order.
func (db *DB) Load(ctx context.Context) ([]cache.Entry, error) {
	rows, err := db.pool.Query(ctx, `SELECT url, body FROM cache_entries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cache entries: %w", err)
	}
	defer rows.Close()

	var entries []cache.Entry
	for rows.Next() {
		var e cache.Entry
		if err := rows.Scan(&e.URL, &e.Body); err != nil {
			return nil, fmt.Errorf("failed to scan cache entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cache entries: %w", err)
	}
	return entries, nil
}

// Save upserts every entry in a single batch.
func (db *DB) Save(ctx context.Context, entries []cache.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(
			`INSERT INTO cache_entries (url, body) VALUES ($1, $2)
			 ON CONFLICT (url) DO UPDATE SET body = EXCLUDED.body`,
			e.URL, e.Body,
		)
	}

	results := db.pool.SendBatch(ctx, batch)
	defer func() { _ = results.Close() }()
	for _, e := range entries {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to save cache entry %s: %w", e.URL, err)
		}
	}
	return nil
}

// CreateRun records the start of a generation run.
func (db *DB) CreateRun(ctx context.Context, id uuid.UUID, entryCount int) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO generation_runs (id, entry_count, status) VALUES ($1, $2, $3)`,
		id, entryCount, RunStatusRunning,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// CompleteRun marks a run finished with its final status and cache counters.
func (db *DB) CompleteRun(ctx context.Context, id uuid.UUID, status string, stats cache.Stats) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE generation_runs SET status = $1, fetches = $2, hits = $3, completed_at = NOW() WHERE id = $4`,
		status, stats.Fetches, stats.Hits, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// GetRun returns a run, or nil if it does not exist.
func (db *DB) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	var run Run
	err := db.pool.QueryRow(ctx,
		`SELECT id, entry_count, status, fetches, hits, started_at, completed_at
		 FROM generation_runs WHERE id = $1`,
		id,
	).Scan(&run.ID, &run.EntryCount, &run.Status, &run.Fetches, &run.Hits, &run.StartedAt, &run.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}
