package enhancer

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// UnknownTSSDistance marks a region whose distance to the nearest TSS is
// not known. It never falls inside the promoter window.
const UnknownTSSDistance int64 = math.MaxInt64

// PromoterWindow is the distance to a TSS, in base pairs, within which a
// region is treated as gene-proximal.
const PromoterWindow int64 = 2000

// GenomicContext describes where a region sits relative to genes.
// The zero value places the region at a TSS; use UnknownContext for a
// region with no annotation.
type GenomicContext struct {
	IsExon        bool
	IsCoding      bool
	IsPromoter    bool
	DistanceToTSS int64 // signed bp, UnknownTSSDistance when unknown
}

// UnknownContext returns a non-exonic, non-coding context with unknown TSS
// distance.
func UnknownContext() GenomicContext {
	return GenomicContext{DistanceToTSS: UnknownTSSDistance}
}

// IsGeneProximal reports whether the region is exonic, coding or within
// PromoterWindow of a TSS. Such regions are excluded from enhancer scoring
// because transcription and splicing dominate their signal.
func (c GenomicContext) IsGeneProximal() bool {
	if c.IsExon || c.IsCoding {
		return true
	}
	return c.DistanceToTSS >= -PromoterWindow && c.DistanceToTSS <= PromoterWindow
}

// ContextFromMap builds a GenomicContext from a decoded mapping with keys
// is_exon, is_coding, is_promoter and distance_to_tss. A missing,
// non-numeric or non-finite distance is unknown.
func ContextFromMap(m map[string]any) GenomicContext {
	return GenomicContext{
		IsExon:        cast.ToBool(m["is_exon"]),
		IsCoding:      cast.ToBool(m["is_coding"]),
		IsPromoter:    cast.ToBool(m["is_promoter"]),
		DistanceToTSS: distanceFrom(m["distance_to_tss"]),
	}
}

func distanceFrom(v any) int64 {
	if v == nil {
		return UnknownTSSDistance
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return UnknownTSSDistance
	}
	if f >= math.MaxInt64 || f <= math.MinInt64 {
		return UnknownTSSDistance
	}
	// Round away from zero so a fractional distance just past the
	// promoter window stays outside it.
	if f < 0 {
		return int64(math.Floor(f))
	}
	return int64(math.Ceil(f))
}

// Sequence Ontology terms that place a variant inside a coding sequence.
var codingTerms = map[string]bool{
	"missense_variant":                  true,
	"synonymous_variant":                true,
	"stop_gained":                       true,
	"stop_lost":                         true,
	"start_lost":                        true,
	"stop_retained_variant":             true,
	"start_retained_variant":            true,
	"frameshift_variant":                true,
	"inframe_insertion":                 true,
	"inframe_deletion":                  true,
	"protein_altering_variant":          true,
	"coding_sequence_variant":           true,
	"incomplete_terminal_codon_variant": true,
}

// Sequence Ontology terms that place a variant in a non-coding exon.
var exonTerms = map[string]bool{
	"5_prime_UTR_variant":                true,
	"3_prime_UTR_variant":                true,
	"non_coding_transcript_exon_variant": true,
	"mature_miRNA_variant":               true,
}

// ContextFromConsequence derives a GenomicContext from a MAF Consequence
// value (comma-separated SO terms) and its HGVSp_Short protein change.
// Coding variants are also exonic. TSS distance is unknown.
func ContextFromConsequence(consequence, hgvsp string) GenomicContext {
	ctx := UnknownContext()
	for _, term := range strings.Split(consequence, ",") {
		term = strings.TrimSpace(term)
		switch {
		case codingTerms[term]:
			ctx.IsCoding = true
			ctx.IsExon = true
		case exonTerms[term]:
			ctx.IsExon = true
		case term == "upstream_gene_variant":
			ctx.IsPromoter = true
		}
	}
	if strings.HasPrefix(hgvsp, "p.") {
		ctx.IsCoding = true
		ctx.IsExon = true
	}
	return ctx
}
