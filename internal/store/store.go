// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store keeps an interval table in SQLite for filtered queries by
// record, annotation code and time window.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "github.com/mattn/go-sqlite3"

	"github.com/borngreat26/DSC106-ClusterFunks2/pkg/types"
)

// Store manages the interval database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path and creates the schema if it
// does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS intervals (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			record_id TEXT NOT NULL,
			time_sec REAL NOT NULL,
			rr_ms REAL NOT NULL,
			annotation TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_intervals_record_id ON intervals(record_id, time_sec)`,
		`CREATE INDEX IF NOT EXISTS idx_intervals_annotation ON intervals(annotation)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Replace swaps the stored table for rows in a single transaction and
// returns the number of rows written.
func (s *Store) Replace(ctx context.Context, rows []types.Interval) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM intervals`); err != nil {
		return 0, fmt.Errorf("clearing intervals: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO intervals (record_id, time_sec, rr_ms, annotation) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.RecordID, r.TimeSec, r.RRms, r.Annotation); err != nil {
			return 0, fmt.Errorf("inserting row %d (record %s): %w", i, r.RecordID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing intervals: %w", err)
	}
	return len(rows), nil
}

// Records returns the distinct record ids, sorted.
func (s *Store) Records(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT record_id FROM intervals ORDER BY record_id`)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning record id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CodeCount is the number of stored rows with one annotation code.
type CodeCount struct {
	Code  string `json:"code" yaml:"code"`
	Count int    `json:"count" yaml:"count"`
}

// Counts returns per-code row counts, most frequent first. Ties are
// ordered by code.
func (s *Store) Counts(ctx context.Context) ([]CodeCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT annotation, count(*) FROM intervals GROUP BY annotation`)
	if err != nil {
		return nil, fmt.Errorf("counting annotations: %w", err)
	}
	defer rows.Close()

	var out []CodeCount
	for rows.Next() {
		var c CodeCount
		if err := rows.Scan(&c.Code, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// SQLite collation differs from Go string order for non-ASCII codes.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}
