package duckdb

import "github.com/inodb/vibe-enhancer/internal/screen"

// DefaultBatchSize is the number of results buffered before an append.
const DefaultBatchSize = 1000

// ResultWriter buffers screening results and appends them to the store in
// batches under a single run id.
type ResultWriter struct {
	store     *Store
	runID     string
	batchSize int
	buf       []ResultRow
	written   int
}

// NewResultWriter creates a writer for the given run.
func NewResultWriter(s *Store, runID string) *ResultWriter {
	return &ResultWriter{store: s, runID: runID, batchSize: DefaultBatchSize}
}

// WriteHeader is a no-op; the schema already exists.
func (w *ResultWriter) WriteHeader() error { return nil }

// Write buffers one result, appending a batch when the buffer is full.
func (w *ResultWriter) Write(r *screen.Result) error {
	w.buf = append(w.buf, RowFromResult(w.runID, r))
	if len(w.buf) >= w.batchSize {
		return w.Flush()
	}
	return nil
}

// Flush appends any buffered results.
func (w *ResultWriter) Flush() error {
	if len(w.buf) == 0 {
		return nil
	}
	if err := w.store.WriteResults(w.buf); err != nil {
		return err
	}
	w.written += len(w.buf)
	w.buf = w.buf[:0]
	return nil
}

// Written returns the number of rows appended so far, including duplicates
// dropped by the store.
func (w *ResultWriter) Written() int {
	return w.written
}
