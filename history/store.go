// Package history records completed analyses locally. The server keeps jobs
// running past the client's polling window, so the client remembers what it
// uploaded and recovers results later through the status command.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"mixanalyzer/core"
)

// ErrNotFound is returned when no record exists for a track.
var ErrNotFound = errors.New("history: track not found")

// Record statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Record is one tracked analysis.
type Record struct {
	ID           int64
	TrackID      string
	Filename     string
	Status       string
	OverallScore float64
	FromCache    bool
	ResultJSON   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Result decodes the stored payload. Returns nil when none was recorded.
func (r *Record) Result() (*core.AnalysisResult, error) {
	if r.ResultJSON == "" {
		return nil, nil
	}
	var result core.AnalysisResult
	if err := json.Unmarshal([]byte(r.ResultJSON), &result); err != nil {
		return nil, fmt.Errorf("decoding stored result for %s: %w", r.TrackID, err)
	}
	return &result, nil
}

// Store is a SQLite-backed history of analyses. SQLite handles concurrency
// best with a single writer, so the pool is capped at one connection.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at path, applies pending
// migrations, and returns a ready store.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("history database path is required")
	}

	if err := runMigrations(path); err != nil {
		return nil, err
	}

	db, err := openConnection(path)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// openConnection opens a WAL-mode SQLite connection with a single-writer
// pool.
func openConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// MarkPending records an upload whose analysis has not completed yet. Safe
// to call repeatedly for the same track.
func (s *Store) MarkPending(ctx context.Context, trackID, filename string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (track_id, filename, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(track_id) DO UPDATE SET
			filename = excluded.filename,
			updated_at = excluded.updated_at`,
		trackID, filename, StatusPending, time.Now().UTC(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record pending analysis: %w", err)
	}
	return nil
}

// SaveResult stores (or replaces) the completed payload for a track.
func (s *Store) SaveResult(ctx context.Context, trackID, filename string, fromCache bool, result *core.AnalysisResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analyses (track_id, filename, status, overall_score, from_cache, result_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(track_id) DO UPDATE SET
			filename = excluded.filename,
			status = excluded.status,
			overall_score = excluded.overall_score,
			from_cache = excluded.from_cache,
			result_json = excluded.result_json,
			updated_at = excluded.updated_at`,
		trackID, filename, StatusCompleted, result.OverallScore, fromCache,
		string(payload), time.Now().UTC(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save analysis result: %w", err)
	}
	return nil
}

// Get returns the record for one track, or ErrNotFound.
func (s *Store) Get(ctx context.Context, trackID string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, track_id, filename, status, overall_score, from_cache,
		       COALESCE(result_json, ''), created_at, updated_at
		FROM analyses WHERE track_id = ?`, trackID)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis record: %w", err)
	}
	return rec, nil
}

// List returns the most recent records, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, track_id, filename, status, overall_score, from_cache,
		       COALESCE(result_json, ''), created_at, updated_at
		FROM analyses ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis record: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Delete removes a track's record. Deleting an absent track is not an error.
func (s *Store) Delete(ctx context.Context, trackID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM analyses WHERE track_id = ?`, trackID); err != nil {
		return fmt.Errorf("failed to delete analysis record: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (*Record, error) {
	var rec Record
	err := s.Scan(&rec.ID, &rec.TrackID, &rec.Filename, &rec.Status,
		&rec.OverallScore, &rec.FromCache, &rec.ResultJSON,
		&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
