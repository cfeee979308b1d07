// Package duckdb persists screening runs and their per-mutation results in
// DuckDB so that they can be queried after the batch finishes.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection holding screening results.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database path, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS screen_runs (
		run_id VARCHAR PRIMARY KEY,
		started_at TIMESTAMP,
		algorithm VARCHAR,
		tissue VARCHAR,
		maf_path VARCHAR,
		maf_size BIGINT,
		maf_mtime TIMESTAMP,
		signal_path VARCHAR,
		signal_size BIGINT,
		signal_mtime TIMESTAMP,
		criteria VARCHAR
	)`); err != nil {
		return err
	}

	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS screen_results (
		run_id VARCHAR,
		variant_id VARCHAR,
		chrom VARCHAR,
		pos BIGINT,
		ref VARCHAR,
		alt VARCHAR,
		gene VARCHAR,
		sample_id VARCHAR,
		consequence VARCHAR,
		tissue VARCHAR,
		gene_proximal BOOLEAN,
		distance_to_tss BIGINT,
		total_score DOUBLE,
		enhancer_class VARCHAR,
		confidence VARCHAR,
		components VARCHAR,
		detected BOOLEAN,
		detection_confidence VARCHAR,
		positive_marks VARCHAR,
		evidence_score DOUBLE,
		promoter_like BOOLEAN,
		PRIMARY KEY (run_id, variant_id, sample_id)
	)`)
	return err
}
