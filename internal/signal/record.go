package signal

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"

	"github.com/inodb/vibe-enhancer/internal/variant"
)

// Record pairs one variant with its AlphaGenome summary and the
// experimental metadata needed by the scorer.
type Record struct {
	VariantID        string // normalized chrom_pos_ref/alt
	Tissue           string // UBERON ontology id, e.g. "UBERON:0001264"
	CellTypeMatched  bool
	HasCellTypeMatch bool // CellTypeMatched was given explicitly
	ReplicateCount   int  // >= 1
	Summary          Summary
	Context          map[string]any // explicit genomic context, nil when absent
	Evidence         map[string]any // pre-computed z-score evidence, nil when absent
}

// CellTypeMatch reports whether the prediction came from the tissue being
// screened. An explicit cell_type_matched field wins; otherwise the
// summary's tissue label must mention the tissue id.
func (r Record) CellTypeMatch(tissue string) bool {
	if r.HasCellTypeMatch {
		return r.CellTypeMatched
	}
	if tissue == "" || r.Summary.Tissue == "" {
		return false
	}
	return strings.Contains(r.Summary.Tissue, tissue)
}

// RecordFromMap builds a Record from a decoded JSON object.
func RecordFromMap(m map[string]any) Record {
	r := Record{
		Tissue:         cast.ToString(m["tissue"]),
		ReplicateCount: cast.ToInt(m["replicate_count"]),
		Summary:        FromMap(asMap(m["summary"])),
		Context:        asMap(m["context"]),
		Evidence:       asMap(m["evidence"]),
	}
	if r.ReplicateCount < 1 {
		r.ReplicateCount = 1
	}
	if raw, ok := m["cell_type_matched"]; ok {
		r.CellTypeMatched = cast.ToBool(raw)
		r.HasCellTypeMatch = true
	}

	if id := cast.ToString(m["variant_id"]); id != "" {
		r.VariantID = variant.NormalizeID(id)
	} else if chrom := cast.ToString(m["chrom"]); chrom != "" {
		r.VariantID = variant.FormatID(chrom, cast.ToInt64(m["pos"]),
			cast.ToString(m["ref"]), cast.ToString(m["alt"]))
	}
	return r
}

// DecodeRecord decodes a single JSON object into a Record.
func DecodeRecord(data []byte) (Record, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Record{}, fmt.Errorf("decode signal record: %w", err)
	}
	return RecordFromMap(m), nil
}
