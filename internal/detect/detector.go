package detect

import (
	"fmt"
	"math"
	"strings"

	"github.com/inodb/vibe-enhancer/internal/enhancer"
	"github.com/inodb/vibe-enhancer/internal/signal"
)

// Positive mark names, in reporting order.
const (
	MarkDNase   = "DNase_accessibility"
	MarkH3K27ac = "H3K27ac_active_enhancer"
	MarkH3K4me1 = "H3K4me1_enhancer"
	MarkRNA     = "RNA_enhancer_transcription"
)

// Evidence score keys for the H3K4me3 promoter check.
const (
	EvidenceH3K4me3Low  = "h3k4me3_low"
	EvidenceH3K4me3High = "h3k4me3_high"
)

// maxEvidenceScore caps the per-mark log-fold evidence score.
const maxEvidenceScore = 5.0

// h3k4me3Margin is how far above the ceiling H3K4me3 must rise before it
// counts against an enhancer call.
const h3k4me3Margin = 0.1

var markDescriptions = map[string]string{
	MarkDNase:   "open chromatin",
	MarkH3K27ac: "active enhancer marks",
	MarkH3K4me1: "enhancer chromatin state",
	MarkRNA:     "enhancer transcription",
}

// Result is the outcome of a detection call.
type Result struct {
	IsDetected         bool                `json:"is_detected" yaml:"is_detected"`
	Confidence         enhancer.Confidence `json:"confidence" yaml:"confidence"`
	Algorithm          Algorithm           `json:"algorithm" yaml:"algorithm"`
	CriteriaName       string              `json:"criteria_name" yaml:"criteria_name"`
	PositiveMarks      []string            `json:"positive_marks" yaml:"positive_marks"`
	EvidenceScores     map[string]float64  `json:"evidence_scores" yaml:"evidence_scores"`
	TotalEvidenceScore float64             `json:"total_evidence_score" yaml:"total_evidence_score"`
	Interpretation     string              `json:"interpretation" yaml:"interpretation"`
	CriteriaUsed       map[string]float64  `json:"criteria_used" yaml:"criteria_used"`
}

// Option configures a Detector.
type Option func(*Detector) error

// WithMinMarks overrides the number of positive marks required for a call.
func WithMinMarks(n int) Option {
	return func(d *Detector) error {
		if n < 1 {
			return fmt.Errorf("min marks must be at least 1, got %d", n)
		}
		d.base.MinMarks = n
		return nil
	}
}

// Detector makes binary enhancer calls from raw signal increases.
// It is immutable after construction and safe for concurrent use.
type Detector struct {
	algorithm Algorithm
	base      Thresholds
}

// NewDetector creates a detector for the given preset.
func NewDetector(alg Algorithm, opts ...Option) (*Detector, error) {
	base, ok := enhancerPresets[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(alg))
	}
	d := &Detector{algorithm: alg, base: base}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Algorithm returns the preset in use.
func (d *Detector) Algorithm() Algorithm {
	return d.algorithm
}

// Thresholds returns the thresholds in effect for a tissue. An empty or
// unknown tissue id yields the preset's base thresholds.
func (d *Detector) Thresholds(tissueID string) Thresholds {
	return d.base.adjust(tissueID)
}

// Criteria returns the thresholds in effect for a tissue keyed by name,
// for provenance reporting.
func (d *Detector) Criteria(tissueID string) map[string]float64 {
	t := d.Thresholds(tissueID)
	return map[string]float64{
		"dnase_min_increase":   t.DNase,
		"h3k27ac_min_increase": t.H3K27ac,
		"h3k4me1_min_increase": t.H3K4me1,
		"h3k4me3_max_increase": t.H3K4me3,
		"rna_min_increase":     t.RNA,
		"min_marks_required":   float64(t.MinMarks),
	}
}

// Detect tests a summary against the detector's thresholds, scaled for the
// given tissue.
func (d *Detector) Detect(s signal.Summary, tissueID string) Result {
	t := d.Thresholds(tissueID)

	var positive []string
	scores := make(map[string]float64)

	check := func(mark, key string, observed, threshold float64) {
		if observed >= threshold {
			positive = append(positive, mark)
			scores[key] = evidenceScore(observed, threshold)
		}
	}
	check(MarkDNase, "dnase", math.Max(s.DNase.MaxIncrease, s.ATAC.MaxIncrease), t.DNase)
	check(MarkH3K27ac, "h3k27ac", s.Mark(signal.MarkH3K27ac).MaxIncrease, t.H3K27ac)
	check(MarkH3K4me1, "h3k4me1", s.Mark(signal.MarkH3K4me1).MaxIncrease, t.H3K4me1)

	h3k4me3 := s.Mark(signal.MarkH3K4me3).MaxIncrease
	switch {
	case h3k4me3 < t.H3K4me3:
		scores[EvidenceH3K4me3Low] = 1.0
	case h3k4me3 > t.H3K4me3+h3k4me3Margin:
		scores[EvidenceH3K4me3High] = -0.5
	}

	check(MarkRNA, "rna", s.RNASeq.MaxIncrease, t.RNA)

	total := 0.0
	for _, v := range scores {
		if v > 0 {
			total += v
		}
	}

	detected := len(positive) >= t.MinMarks
	conf := confidenceFor(len(positive), t.HighMarks, t.MediumMarks)

	return Result{
		IsDetected:         detected,
		Confidence:         conf,
		Algorithm:          d.algorithm,
		CriteriaName:       t.Name,
		PositiveMarks:      positive,
		EvidenceScores:     scores,
		TotalEvidenceScore: total,
		Interpretation:     interpret(detected, positive, conf, tissueID),
		CriteriaUsed:       d.Criteria(tissueID),
	}
}

// evidenceScore grows with the log fold change of the observed signal over
// its threshold, capped at maxEvidenceScore.
func evidenceScore(observed, threshold float64) float64 {
	if observed <= threshold {
		return 0
	}
	return math.Min(math.Log2(observed/threshold+1), maxEvidenceScore)
}

func confidenceFor(marks, high, medium int) enhancer.Confidence {
	switch {
	case marks >= high:
		return enhancer.ConfidenceHigh
	case marks >= medium:
		return enhancer.ConfidenceModerate
	default:
		return enhancer.ConfidenceLow
	}
}

func interpret(detected bool, positive []string, conf enhancer.Confidence, tissueID string) string {
	where := ""
	if adj, ok := tissueAdjustments[tissueID]; ok {
		where = " in " + adj.Name + " tissue"
	}
	if !detected {
		return "No enhancer-like regulatory activity detected" + where + ". Insufficient chromatin signature evidence."
	}
	evidence := make([]string, len(positive))
	for i, m := range positive {
		evidence[i] = markDescriptions[m]
	}
	return fmt.Sprintf("Enhancer-like regulatory activity detected%s (%s confidence). Evidence: %s.",
		where, conf, strings.Join(evidence, ", "))
}
