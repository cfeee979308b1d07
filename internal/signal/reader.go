package signal

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	json "github.com/goccy/go-json"
)

// Reader reads signal records from a JSON Lines file, one object per line.
// Blank lines and lines starting with '#' are skipped.
type Reader struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	done       bool
}

// NewReader opens a JSONL file. Gzipped input is detected by magic bytes;
// "-" reads from stdin.
func NewReader(path string) (*Reader, error) {
	if path == "-" {
		return NewReaderFrom(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open signal file: %w", err)
	}

	r := &Reader{file: file}
	br := bufio.NewReader(file)
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		r.gzipReader, err = gzip.NewReader(br)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		r.reader = bufio.NewReader(r.gzipReader)
	} else {
		r.reader = br
	}
	return r, nil
}

// NewReaderFrom creates a reader over an arbitrary io.Reader.
func NewReaderFrom(rd io.Reader) *Reader {
	return &Reader{reader: bufio.NewReader(rd)}
}

// Next reads the next record. Returns nil, nil when there are no more records.
func (r *Reader) Next() (*Record, error) {
	for !r.done {
		line, err := r.reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				return nil, fmt.Errorf("read signal line: %w", err)
			}
			r.done = true
			if line == "" {
				break
			}
		}
		r.lineNumber++

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			return nil, &ParseError{Line: r.lineNumber, Message: err.Error()}
		}
		rec := RecordFromMap(m)
		if rec.VariantID == "" {
			return nil, &ParseError{Line: r.lineNumber, Message: "record has neither variant_id nor chrom/pos/ref/alt"}
		}
		return &rec, nil
	}
	return nil, nil
}

// LineNumber returns the current line number being processed.
func (r *Reader) LineNumber() int {
	return r.lineNumber
}

// Close closes the reader and underlying file.
func (r *Reader) Close() error {
	if r.gzipReader != nil {
		r.gzipReader.Close()
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// ParseError represents an error during signal parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("signal parse error at line %d: %s", e.Line, e.Message)
}
