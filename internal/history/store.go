// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

// Package history persists served recommendations in DuckDB and aggregates
// them for the analytics endpoints.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/cropwise/internal/logging"
	"github.com/tomtom215/cropwise/internal/metrics"
)

// MemoryPath opens an in-process database that is discarded on Close.
const MemoryPath = ":memory:"

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

var (
	// ErrNotFound is returned when no recommendation has the requested id.
	ErrNotFound = errors.New("recommendation not found")
	// ErrInvalidStatus is returned for feedback statuses other than success or failure.
	ErrInvalidStatus = errors.New("status must be success or failure")
)

// Status tracks whether a served recommendation worked out for the farmer.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Crop is one recommended crop as stored.
type Crop struct {
	Crop       string  `json:"crop"`
	Confidence float64 `json:"confidence"`
}

// Entry is a single served recommendation.
type Entry struct {
	ID              string          `json:"id"`
	Method          string          `json:"method"`
	Input           json.RawMessage `json:"input_data,omitempty"`
	Region          string          `json:"region,omitempty"`
	Recommendations []Crop          `json:"recommendations"`
	Status          Status          `json:"status"`
	Feedback        string          `json:"feedback,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Store wraps the DuckDB connection.
type Store struct {
	conn *sql.DB
	now  func() time.Time
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS recommendations (
		id VARCHAR PRIMARY KEY,
		method VARCHAR NOT NULL,
		input VARCHAR,
		region VARCHAR,
		status VARCHAR NOT NULL DEFAULT 'pending',
		feedback VARCHAR,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS recommendation_crops (
		recommendation_id VARCHAR NOT NULL,
		crop_rank INTEGER NOT NULL,
		crop VARCHAR NOT NULL,
		confidence DOUBLE NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_recommendations_created ON recommendations(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_recommendation_crops_id ON recommendation_crops(recommendation_id)`,
}

// Open opens (or creates) the history database at path and applies the schema.
// Use MemoryPath for a throwaway store.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("history path is required")
	}

	connStr := MemoryPath
	if path != MemoryPath {
		dir := filepath.Dir(path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create history directory %s: %w", dir, err)
			}
		}
		connStr = path
	}
	// Extensions are never needed here and autoloading can hang without network.
	connStr += "?autoinstall_known_extensions=false&autoload_known_extensions=false"

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	s := &Store{conn: conn, now: time.Now}
	if err := s.initialize(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	logging.Info().Str("path", path).Msg("Recommendation history opened")
	return s, nil
}

func (s *Store) initialize(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// Record stores e. A missing ID, status or creation time is filled in and
// the stored entry is returned.
func (s *Store) Record(ctx context.Context, e Entry) (*Entry, error) {
	start := time.Now()
	defer func() { metrics.RecordHistoryQuery("record", time.Since(start)) }()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Status == "" {
		e.Status = StatusPending
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now().UTC()
	}
	e.UpdatedAt = e.CreatedAt
	if e.Recommendations == nil {
		e.Recommendations = []Crop{}
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO recommendations (id, method, input, region, status, feedback, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Method, nullString(string(e.Input)), nullString(e.Region), string(e.Status),
		nullString(e.Feedback), e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert recommendation: %w", err)
	}

	for i, c := range e.Recommendations {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO recommendation_crops (recommendation_id, crop_rank, crop, confidence) VALUES (?, ?, ?, ?)`,
			e.ID, i+1, c.Crop, c.Confidence)
		if err != nil {
			return nil, fmt.Errorf("failed to insert recommended crop: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit recommendation: %w", err)
	}
	return &e, nil
}

// Get returns the entry with the given id.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	entries, err := s.query(ctx, `WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNotFound
	}
	return &entries[0], nil
}

// List returns entries newest first. limit is clamped to [1, MaxListLimit].
func (s *Store) List(ctx context.Context, limit, offset int) ([]Entry, error) {
	start := time.Now()
	defer func() { metrics.RecordHistoryQuery("list", time.Since(start)) }()

	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.query(ctx, `ORDER BY created_at DESC, id LIMIT ? OFFSET ?`, limit, offset)
}

// UpdateFeedback sets the outcome reported for a recommendation.
func (s *Store) UpdateFeedback(ctx context.Context, id string, status Status, feedback string) (*Entry, error) {
	start := time.Now()
	defer func() { metrics.RecordHistoryQuery("feedback", time.Since(start)) }()

	if status != StatusSuccess && status != StatusFailure {
		return nil, ErrInvalidStatus
	}

	res, err := s.conn.ExecContext(ctx,
		`UPDATE recommendations SET status = ?, feedback = ?, updated_at = ? WHERE id = ?`,
		string(status), nullString(feedback), s.now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update recommendation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// query loads entries matching the trailing SQL clause, then their crops.
func (s *Store) query(ctx context.Context, clause string, args ...any) ([]Entry, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, method, COALESCE(input, ''), COALESCE(region, ''), status,
		        COALESCE(feedback, ''), created_at, updated_at
		 FROM recommendations `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}

	var entries []Entry
	for rows.Next() {
		var e Entry
		var input, status string
		if err := rows.Scan(&e.ID, &e.Method, &input, &e.Region, &status, &e.Feedback, &e.CreatedAt, &e.UpdatedAt); err != nil {
			closeQuietly(rows)
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		if input != "" {
			e.Input = json.RawMessage(input)
		}
		e.Status = Status(status)
		e.Recommendations = []Crop{}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		closeQuietly(rows)
		return nil, fmt.Errorf("failed to iterate recommendations: %w", err)
	}
	closeQuietly(rows)

	if len(entries) == 0 {
		return []Entry{}, nil
	}
	if err := s.attachCrops(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) attachCrops(ctx context.Context, entries []Entry) error {
	byID := make(map[string]int, len(entries))
	placeholders := make([]string, len(entries))
	args := make([]any, len(entries))
	for i, e := range entries {
		byID[e.ID] = i
		placeholders[i] = "?"
		args[i] = e.ID
	}

	rows, err := s.conn.QueryContext(ctx,
		`SELECT recommendation_id, crop, confidence FROM recommendation_crops
		 WHERE recommendation_id IN (`+strings.Join(placeholders, ", ")+`)
		 ORDER BY recommendation_id, crop_rank`, args...)
	if err != nil {
		return fmt.Errorf("failed to query recommended crops: %w", err)
	}
	defer closeQuietly(rows)

	for rows.Next() {
		var id string
		var c Crop
		if err := rows.Scan(&id, &c.Crop, &c.Confidence); err != nil {
			return fmt.Errorf("failed to scan recommended crop: %w", err)
		}
		if i, ok := byID[id]; ok {
			entries[i].Recommendations = append(entries[i].Recommendations, c)
		}
	}
	return rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
