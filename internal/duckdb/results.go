package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-enhancer/internal/enhancer"
	"github.com/inodb/vibe-enhancer/internal/screen"
)

// ResultRow is the persisted form of a screening result.
type ResultRow struct {
	RunID               string
	VariantID           string
	Chrom               string
	Pos                 int64
	Ref                 string
	Alt                 string
	Gene                string
	SampleID            string
	Consequence         string
	Tissue              string
	GeneProximal        bool
	DistanceToTSS       *int64 // nil when unknown
	TotalScore          float64
	Class               enhancer.Class
	Confidence          enhancer.Confidence
	Components          map[string]float64
	Detected            bool
	DetectionConfidence enhancer.Confidence
	PositiveMarks       []string
	EvidenceScore       float64
	PromoterLike        bool
}

// RowFromResult flattens a screening result for storage.
func RowFromResult(runID string, r *screen.Result) ResultRow {
	row := ResultRow{
		RunID:               runID,
		VariantID:           r.VariantID,
		Chrom:               r.Variant.Chrom,
		Pos:                 r.Variant.Pos,
		Ref:                 r.Variant.Ref,
		Alt:                 r.Variant.Alt,
		Tissue:              r.Tissue,
		GeneProximal:        r.Context.IsGeneProximal(),
		TotalScore:          r.Score.TotalScore,
		Class:               r.Score.Class,
		Confidence:          r.Score.Confidence,
		Components:          r.Score.Components,
		Detected:            r.Detection.IsDetected,
		DetectionConfidence: r.Detection.Confidence,
		PositiveMarks:       r.Detection.PositiveMarks,
		EvidenceScore:       r.Detection.TotalEvidenceScore,
		PromoterLike:        r.Promoter.IsDetected,
	}
	if d := r.Context.DistanceToTSS; d != enhancer.UnknownTSSDistance {
		row.DistanceToTSS = &d
	}
	if ann := r.Annotation; ann != nil {
		row.Gene = ann.HugoSymbol
		row.SampleID = ann.SampleID
		row.Consequence = ann.ConsequenceTerms()
	}
	return row
}

// resultKey is the composite key for deduplicating rows before writing.
type resultKey struct {
	runID, variantID, sampleID string
}

// WriteResults batch-inserts rows into DuckDB using the Appender API.
// Duplicate (run_id, variant_id, sample_id) entries are deduplicated before writing.
func (s *Store) WriteResults(rows []ResultRow) error {
	if len(rows) == 0 {
		return nil
	}

	// Same mutation listed twice for one sample in the MAF
	seen := make(map[resultKey]bool, len(rows))
	deduped := make([]ResultRow, 0, len(rows))
	for _, r := range rows {
		k := resultKey{r.RunID, r.VariantID, r.SampleID}
		if !seen[k] {
			seen[k] = true
			deduped = append(deduped, r)
		}
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "screen_results")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range deduped {
		components, err := json.Marshal(r.Components)
		if err != nil {
			return fmt.Errorf("encode components for %s: %w", r.VariantID, err)
		}
		var distance driver.Value
		if r.DistanceToTSS != nil {
			distance = *r.DistanceToTSS
		}
		if err := appender.AppendRow(
			r.RunID, r.VariantID, r.Chrom, r.Pos, r.Ref, r.Alt,
			r.Gene, r.SampleID, r.Consequence, r.Tissue,
			r.GeneProximal, distance,
			r.TotalScore, string(r.Class), string(r.Confidence), string(components),
			r.Detected, string(r.DetectionConfidence), strings.Join(r.PositiveMarks, ","),
			r.EvidenceScore, r.PromoterLike,
		); err != nil {
			return fmt.Errorf("append screen result: %w", err)
		}
	}

	return appender.Flush()
}

// ClearResults removes all stored results and runs.
func (s *Store) ClearResults() error {
	if _, err := s.db.Exec("DELETE FROM screen_results"); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM screen_runs")
	return err
}

const selectResults = `SELECT
	run_id, variant_id, chrom, pos, ref, alt,
	gene, sample_id, consequence, tissue,
	gene_proximal, distance_to_tss,
	total_score, enhancer_class, confidence, components,
	detected, detection_confidence, positive_marks,
	evidence_score, promoter_like
	FROM screen_results`

const orderResults = ` ORDER BY total_score DESC, variant_id, sample_id`

// LookupVariant returns every stored result for a variant id across runs.
func (s *Store) LookupVariant(variantID string) ([]ResultRow, error) {
	rows, err := s.db.Query(selectResults+` WHERE variant_id=?`+orderResults, variantID)
	if err != nil {
		return nil, fmt.Errorf("query variant: %w", err)
	}
	defer rows.Close()
	return scanResults(rows)
}

// SearchByGene returns stored results for a Hugo gene symbol.
func (s *Store) SearchByGene(gene string) ([]ResultRow, error) {
	rows, err := s.db.Query(selectResults+` WHERE gene=?`+orderResults, gene)
	if err != nil {
		return nil, fmt.Errorf("query by gene: %w", err)
	}
	defer rows.Close()
	return scanResults(rows)
}

// SearchByClass returns stored results of one enhancer class with a score
// of at least minScore.
func (s *Store) SearchByClass(class enhancer.Class, minScore float64) ([]ResultRow, error) {
	rows, err := s.db.Query(selectResults+` WHERE enhancer_class=? AND total_score>=?`+orderResults,
		string(class), minScore)
	if err != nil {
		return nil, fmt.Errorf("query by class: %w", err)
	}
	defer rows.Close()
	return scanResults(rows)
}

// CountByClass counts stored results per enhancer class. An empty runID
// counts across all runs.
func (s *Store) CountByClass(runID string) (map[enhancer.Class]int, error) {
	query := `SELECT enhancer_class, count(*) FROM screen_results`
	var args []any
	if runID != "" {
		query += ` WHERE run_id=?`
		args = append(args, runID)
	}
	query += ` GROUP BY enhancer_class`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("count by class: %w", err)
	}
	defer rows.Close()

	counts := make(map[enhancer.Class]int)
	for rows.Next() {
		var class string
		var n int
		if err := rows.Scan(&class, &n); err != nil {
			return nil, fmt.Errorf("scan class count: %w", err)
		}
		counts[enhancer.Class(class)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate class counts: %w", err)
	}
	return counts, nil
}

// scanResults scans rows into ResultRow slices.
func scanResults(rows *sql.Rows) ([]ResultRow, error) {
	var results []ResultRow
	for rows.Next() {
		var r ResultRow
		var distance sql.NullInt64
		var class, conf, detConf, components, marks string

		if err := rows.Scan(
			&r.RunID, &r.VariantID, &r.Chrom, &r.Pos, &r.Ref, &r.Alt,
			&r.Gene, &r.SampleID, &r.Consequence, &r.Tissue,
			&r.GeneProximal, &distance,
			&r.TotalScore, &class, &conf, &components,
			&r.Detected, &detConf, &marks,
			&r.EvidenceScore, &r.PromoterLike,
		); err != nil {
			return nil, fmt.Errorf("scan screen result: %w", err)
		}

		if distance.Valid {
			d := distance.Int64
			r.DistanceToTSS = &d
		}
		r.Class = enhancer.Class(class)
		r.Confidence = enhancer.Confidence(conf)
		r.DetectionConfidence = enhancer.Confidence(detConf)
		if marks != "" {
			r.PositiveMarks = strings.Split(marks, ",")
		}
		if err := json.Unmarshal([]byte(components), &r.Components); err != nil {
			return nil, fmt.Errorf("decode components for %s: %w", r.VariantID, err)
		}

		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate screen results: %w", err)
	}
	return results, nil
}
