package profile

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/tablewire/tablewire/internal/game"
)

const (
	createProfileTableSQL = `
	CREATE TABLE IF NOT EXISTS profile (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		name TEXT NOT NULL DEFAULT '',
		theme TEXT NOT NULL DEFAULT '',
		muted BOOLEAN NOT NULL DEFAULT 0,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	createResultsTableSQL = `
	CREATE TABLE IF NOT EXISTS round_results (
		result TEXT PRIMARY KEY,
		count INTEGER NOT NULL DEFAULT 0
	)`
)

// SQLiteRepository implements Repository on a local SQLite file
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (creating if necessary) the profile database
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile database: %w", err)
	}

	for _, schema := range []string{createProfileTableSQL, createResultsTableSQL} {
		if _, err := db.Exec(schema); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return &SQLiteRepository{db: db}, nil
}

// LoadProfile returns the stored profile, or a zero profile if none was
// ever saved.
func (r *SQLiteRepository) LoadProfile(ctx context.Context) (*Profile, error) {
	var p Profile
	err := r.db.QueryRowContext(ctx,
		`SELECT name, theme, muted FROM profile WHERE id = 1`,
	).Scan(&p.Name, &p.Theme, &p.Muted)
	if err == sql.ErrNoRows {
		return &Profile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &p, nil
}

// SaveProfile upserts the single profile row
func (r *SQLiteRepository) SaveProfile(ctx context.Context, p *Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profile (id, name, theme, muted, updated_at)
		VALUES (1, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			theme = excluded.theme,
			muted = excluded.muted,
			updated_at = CURRENT_TIMESTAMP`,
		p.Name, p.Theme, p.Muted)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// LoadStats aggregates the per-result counters
func (r *SQLiteRepository) LoadStats(ctx context.Context) (*Stats, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT result, count FROM round_results`)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	defer rows.Close()

	var stats Stats
	for rows.Next() {
		var result string
		var count int
		if err := rows.Scan(&result, &count); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		switch game.RoundResult(result) {
		case game.ResultWin:
			stats.Wins = count
		case game.ResultLose:
			stats.Losses = count
		case game.ResultPush:
			stats.Pushes = count
		case game.ResultBlackjack:
			stats.Blackjacks = count
		case game.ResultBust:
			stats.Busts = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stats rows: %w", err)
	}
	return &stats, nil
}

// RecordResult increments the counter for one settled round
func (r *SQLiteRepository) RecordResult(ctx context.Context, result game.RoundResult) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO round_results (result, count) VALUES (?, 1)
		ON CONFLICT(result) DO UPDATE SET count = count + 1`,
		string(result))
	if err != nil {
		return fmt.Errorf("failed to record result: %w", err)
	}
	return nil
}

// Close closes the underlying database
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
