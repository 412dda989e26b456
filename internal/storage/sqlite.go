// Package storage provides SQLite-based persistence for leaderboard runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/snake-replay/internal/leaderboard"
)

// timeLayout matches SQLite's CURRENT_TIMESTAMP format.
const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection for run persistence.
// It implements both leaderboard.Store and leaderboard.ClaimTracker.
type Store struct {
	db *sql.DB
}

var (
	_ leaderboard.Store         = (*Store)(nil)
	_ leaderboard.ClaimTracker  = (*Store)(nil)
	_ leaderboard.ClaimingStore = (*Store)(nil)
)

// querier is satisfied by both *sql.DB and *sql.Tx. With a single open
// connection, statements issued inside a transaction must go through it.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// SQLite allows a single writer; serialize through one connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			identity TEXT NOT NULL UNIQUE,
			score INTEGER NOT NULL,
			seed TEXT NOT NULL,
			move_log TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_score ON runs(score DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_move_log ON runs(move_log);

		CREATE TABLE IF NOT EXISTS score_claims (
			score INTEGER NOT NULL,
			identity TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (score, identity)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const entryColumns = `id, identity, score, seed, move_log, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (leaderboard.Entry, error) {
	var e leaderboard.Entry
	var createdAt, updatedAt any
	if err := row.Scan(&e.ID, &e.Identity, &e.Score, &e.Seed, &e.MoveLog, &createdAt, &updatedAt); err != nil {
		return e, err
	}
	e.CreatedAt = parseTime(createdAt)
	e.UpdatedAt = parseTime(updatedAt)
	return e, nil
}

// parseTime handles both time.Time and string datetime values.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// TopScores retrieves the best entries, ordered by score descending.
// Ties are broken by the earlier update.
func (s *Store) TopScores(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryEntries(ctx,
		`SELECT `+entryColumns+`
		 FROM runs
		 ORDER BY score DESC, updated_at ASC
		 LIMIT ?`,
		limit,
	)
}

// AllEntries retrieves every entry (no limit), best first.
func (s *Store) AllEntries(ctx context.Context) ([]leaderboard.Entry, error) {
	return s.queryEntries(ctx,
		`SELECT `+entryColumns+`
		 FROM runs
		 ORDER BY score DESC, updated_at ASC`,
	)
}

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]leaderboard.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []leaderboard.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// FindByIdentity returns the entry for identity, or nil if there is none.
func (s *Store) FindByIdentity(ctx context.Context, identity string) (*leaderboard.Entry, error) {
	return findOne(ctx, s.db, `SELECT `+entryColumns+` FROM runs WHERE identity = ?`, identity)
}

// FindByReplay returns an entry whose move log equals moveLog, or nil.
func (s *Store) FindByReplay(ctx context.Context, moveLog string) (*leaderboard.Entry, error) {
	return findOne(ctx, s.db, `SELECT `+entryColumns+` FROM runs WHERE move_log = ? LIMIT 1`, moveLog)
}

func findOne(ctx context.Context, q querier, query string, arg any) (*leaderboard.Entry, error) {
	e, err := scanEntry(q.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return &e, nil
}

// Upsert inserts the entry or replaces the one held by the same identity.
// A new entry gets a UUID; a replaced entry keeps its ID and creation time.
func (s *Store) Upsert(ctx context.Context, e leaderboard.Entry) (leaderboard.Entry, error) {
	return upsert(ctx, s.db, e)
}

// UpsertClaimed saves the entry and records its score claim in one
// transaction. If either write fails, neither is kept.
func (s *Store) UpsertClaimed(ctx context.Context, e leaderboard.Entry) (leaderboard.Entry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return leaderboard.Entry{}, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stored, err := upsert(ctx, tx, e)
	if err != nil {
		return leaderboard.Entry{}, err
	}
	if err := addClaim(ctx, tx, e.Score, e.Identity); err != nil {
		return leaderboard.Entry{}, err
	}
	if err := tx.Commit(); err != nil {
		return leaderboard.Entry{}, fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return stored, nil
}

func upsert(ctx context.Context, q querier, e leaderboard.Entry) (leaderboard.Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now().UTC().Format(timeLayout)

	_, err := q.ExecContext(ctx,
		`INSERT INTO runs (id, identity, score, seed, move_log, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(identity) DO UPDATE SET
			score = excluded.score,
			seed = excluded.seed,
			move_log = excluded.move_log,
			updated_at = excluded.updated_at`,
		e.ID, e.Identity, e.Score, e.Seed, e.MoveLog, now, now,
	)
	if err != nil {
		return leaderboard.Entry{}, fmt.Errorf("storage: cannot save run: %w", err)
	}

	stored, err := findOne(ctx, q, `SELECT `+entryColumns+` FROM runs WHERE identity = ?`, e.Identity)
	if err != nil {
		return leaderboard.Entry{}, err
	}
	if stored == nil {
		return leaderboard.Entry{}, fmt.Errorf("storage: run for %q vanished after save", e.Identity)
	}
	return *stored, nil
}

// Claimants returns the identities that have claimed score, oldest first.
func (s *Store) Claimants(ctx context.Context, score int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT identity FROM score_claims WHERE score = ? ORDER BY created_at, identity`,
		score,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query claims: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("storage: cannot scan claim: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return ids, nil
}

// AddClaim records that identity holds score. Repeated claims are ignored.
func (s *Store) AddClaim(ctx context.Context, score int, identity string) error {
	return addClaim(ctx, s.db, score, identity)
}

func addClaim(ctx context.Context, q querier, score int, identity string) error {
	_, err := q.ExecContext(ctx,
		`INSERT OR IGNORE INTO score_claims (score, identity) VALUES (?, ?)`,
		score, identity,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save claim: %w", err)
	}
	return nil
}

// RemoveClaim drops the claim of identity on score, if any.
func (s *Store) RemoveClaim(ctx context.Context, score int, identity string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM score_claims WHERE score = ? AND identity = ?`,
		score, identity,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot remove claim: %w", err)
	}
	return nil
}

// ClearScores deletes every run. Score claims are kept.
func (s *Store) ClearScores(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM runs")
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// Stats holds aggregated leaderboard statistics.
type Stats struct {
	Entries    int
	BestScore  int
	AvgScore   float64
	TotalMoves int64
	LastPlayed time.Time
}

// Stats retrieves aggregated statistics over all entries.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(LENGTH(move_log)), 0)
		 FROM runs`,
	).Scan(&stats.Entries, &stats.BestScore, &stats.AvgScore, &stats.TotalMoves)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRowContext(ctx,
		`SELECT updated_at FROM runs ORDER BY updated_at DESC LIMIT 1`,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}
