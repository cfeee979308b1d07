package duckdb

import (
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/inodb/vibe-enhancer/internal/enhancer"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file. Stdin ("-")
// yields a fingerprint with only the path set.
func StatFile(path string) (FileFingerprint, error) {
	if path == "-" {
		return FileFingerprint{Path: path}, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Run describes one screening invocation and the inputs it read.
type Run struct {
	ID        string
	StartedAt time.Time
	Algorithm string
	Tissue    string
	MAF       FileFingerprint
	Signals   FileFingerprint
	Criteria  enhancer.Criteria
}

// NewRun creates a Run with a fresh random id.
func NewRun(algorithm, tissue string, mafFile, signalFile FileFingerprint, c enhancer.Criteria) Run {
	return Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Algorithm: algorithm,
		Tissue:    tissue,
		MAF:       mafFile,
		Signals:   signalFile,
		Criteria:  c,
	}
}

// CreateRun records a run. Results written under its id reference it.
func (s *Store) CreateRun(r Run) error {
	crit, err := json.Marshal(r.Criteria)
	if err != nil {
		return fmt.Errorf("encode criteria: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO screen_runs VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt, r.Algorithm, r.Tissue,
		r.MAF.Path, r.MAF.Size, r.MAF.ModTime,
		r.Signals.Path, r.Signals.Size, r.Signals.ModTime,
		string(crit))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// ListRuns returns all recorded runs, most recent first.
func (s *Store) ListRuns() ([]Run, error) {
	rows, err := s.db.Query(`SELECT
		run_id, started_at, algorithm, tissue,
		maf_path, maf_size, maf_mtime,
		signal_path, signal_size, signal_mtime, criteria
		FROM screen_runs
		ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var crit string
		if err := rows.Scan(
			&r.ID, &r.StartedAt, &r.Algorithm, &r.Tissue,
			&r.MAF.Path, &r.MAF.Size, &r.MAF.ModTime,
			&r.Signals.Path, &r.Signals.Size, &r.Signals.ModTime, &crit,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(crit), &r.Criteria); err != nil {
			return nil, fmt.Errorf("decode criteria for run %s: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
