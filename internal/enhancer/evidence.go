package enhancer

import (
	"math"

	"github.com/spf13/cast"

	"github.com/inodb/vibe-enhancer/internal/signal"
)

// Evidence is the normalized evidence record for one variant or region.
// Every signal is a non-negative magnitude of increase; an absent mark is
// zero.
type Evidence struct {
	Accessibility float64 // DNase/ATAC
	H3K27ac       float64
	H3K4me1       float64
	H3K4me3       float64
	H3K36me3      float64
	H3K27me3      float64
	CAGE          float64
	RNA           float64 // RNA-seq increase
	IsLikelyERNA  bool    // bidirectional CAGE pattern
	HasAlleleBias bool
}

// Evidence map keys, matching the z-score records produced upstream.
const (
	KeyH3K27acZ       = "h3k27ac_zscore"
	KeyH3K4me1Z       = "h3k4me1_zscore"
	KeyAccessibilityZ = "accessibility_zscore"
	KeyDNaseZ         = "dnase_zscore"
	KeyATACZ          = "atac_zscore"
	KeyH3K4me3Z       = "h3k4me3_zscore"
	KeyH3K36me3Z      = "h3k36me3_zscore"
	KeyH3K27me3Z      = "h3k27me3_zscore"
	KeyCAGESignal     = "cage_signal"
	KeyRNAIncrease    = "rna_increase"
	KeyIsLikelyERNA   = "is_likely_erna"
	KeyHasAlleleBias  = "has_allele_bias"
)

// Default background used when a summary carries no background statistics.
const (
	defaultBackgroundMean = 0.01
	defaultBackgroundStd  = 0.05
)

// maxPolyAFraction is the largest polyA share of total RNA still
// compatible with enhancer RNA.
const maxPolyAFraction = 0.5

// EvidenceFromMap builds Evidence from a mapping of pre-computed z-scores.
// Missing keys read as zero (false for flags) and negative values are
// clamped to zero. Accessibility is the largest of accessibility_zscore,
// dnase_zscore and atac_zscore.
func EvidenceFromMap(m map[string]any) Evidence {
	return Evidence{
		Accessibility: max(magnitude(m[KeyAccessibilityZ]), magnitude(m[KeyDNaseZ]), magnitude(m[KeyATACZ])),
		H3K27ac:       magnitude(m[KeyH3K27acZ]),
		H3K4me1:       magnitude(m[KeyH3K4me1Z]),
		H3K4me3:       magnitude(m[KeyH3K4me3Z]),
		H3K36me3:      magnitude(m[KeyH3K36me3Z]),
		H3K27me3:      magnitude(m[KeyH3K27me3Z]),
		CAGE:          magnitude(m[KeyCAGESignal]),
		RNA:           magnitude(m[KeyRNAIncrease]),
		IsLikelyERNA:  cast.ToBool(m[KeyIsLikelyERNA]),
		HasAlleleBias: cast.ToBool(m[KeyHasAlleleBias]),
	}
}

// ExtractEvidence normalizes an AlphaGenome summary into Evidence.
// Marks that already carry a z-score use it; otherwise the max increase is
// standardized against the summary's background statistics, falling back
// to a background of mean 0.01 and std 0.05.
func ExtractEvidence(s signal.Summary) Evidence {
	ev := Evidence{
		Accessibility: max(zscore(s, "dnase", s.DNase), zscore(s, "atac", s.ATAC)),
		H3K27ac:       zscore(s, "h3k27ac", s.Mark(signal.MarkH3K27ac)),
		H3K4me1:       zscore(s, "h3k4me1", s.Mark(signal.MarkH3K4me1)),
		H3K4me3:       zscore(s, "h3k4me3", s.Mark(signal.MarkH3K4me3)),
		H3K36me3:      zscore(s, "h3k36me3", s.Mark(signal.MarkH3K36me3)),
		H3K27me3:      zscore(s, "h3k27me3", s.Mark(signal.MarkH3K27me3)),
		CAGE:          nonNegative(s.CAGE.MaxSignal),
		RNA:           nonNegative(s.RNASeq.MaxIncrease),
		HasAlleleBias: s.AlleleBias,
	}
	ev.IsLikelyERNA = isLikelyERNA(s)
	return ev
}

// isLikelyERNA separates enhancer RNA from mRNA: transcription must be
// bidirectional, CAGE must show signal, and polyA RNA must not dominate.
func isLikelyERNA(s signal.Summary) bool {
	if !s.CAGE.Bidirectional {
		return false
	}
	if total := s.RNASeq.MaxIncrease; total > 0 && s.PolyAIncrease/total > maxPolyAFraction {
		return false
	}
	return s.CAGE.MaxSignal > 0
}

func zscore(s signal.Summary, key string, t signal.Track) float64 {
	if t.HasZScore {
		return nonNegative(t.ZScore)
	}
	if t.MaxIncrease == 0 {
		return 0
	}
	bg, ok := s.Background[key]
	if !ok {
		bg = signal.Background{Mean: defaultBackgroundMean, Std: defaultBackgroundStd}
	}
	if bg.Std <= 0 {
		return 0
	}
	return nonNegative((t.MaxIncrease - bg.Mean) / bg.Std)
}

func magnitude(v any) float64 {
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0
	}
	return nonNegative(f)
}

func nonNegative(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}
