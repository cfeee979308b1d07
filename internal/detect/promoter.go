package detect

import (
	"fmt"

	"github.com/inodb/vibe-enhancer/internal/signal"
)

// Promoter mark names, in reporting order.
const (
	MarkH3K4me3Promoter = "H3K4me3_promoter"
	MarkTranscription   = "RNA_transcription"
)

type promoterThresholds struct {
	Name     string
	H3K4me3  float64
	DNase    float64
	RNA      float64
	MinMarks int
}

var promoterPresets = map[Algorithm]promoterThresholds{
	Conservative: {Name: "Conservative Promoter Detection", H3K4me3: 0.2, DNase: 0.05, RNA: 0.002, MinMarks: 2},
	Balanced:     {Name: "Balanced Promoter Detection", H3K4me3: 0.1, DNase: 0.02, RNA: 0.001, MinMarks: 2},
}

// PromoterDetector makes binary promoter calls. Promoter calls need
// H3K4me3, accessibility or transcription on at least two marks.
type PromoterDetector struct {
	algorithm Algorithm
	t         promoterThresholds
}

// NewPromoterDetector creates a promoter detector. Presets without a
// promoter variant fall back to Balanced.
func NewPromoterDetector(alg Algorithm) *PromoterDetector {
	t, ok := promoterPresets[alg]
	if !ok {
		alg = Balanced
		t = promoterPresets[Balanced]
	}
	return &PromoterDetector{algorithm: alg, t: t}
}

// Algorithm returns the preset in use after fallback.
func (d *PromoterDetector) Algorithm() Algorithm {
	return d.algorithm
}

// Detect tests a summary for a promoter signature. Each positive mark
// scores its fold over threshold.
func (d *PromoterDetector) Detect(s signal.Summary) Result {
	var positive []string
	scores := make(map[string]float64)

	check := func(mark, key string, observed, threshold float64) {
		if observed >= threshold {
			positive = append(positive, mark)
			scores[key] = observed / threshold
		}
	}
	check(MarkH3K4me3Promoter, "h3k4me3", s.Mark(signal.MarkH3K4me3).MaxIncrease, d.t.H3K4me3)
	check(MarkDNase, "dnase", s.DNase.MaxIncrease, d.t.DNase)
	check(MarkTranscription, "rna", s.RNASeq.MaxIncrease, d.t.RNA)

	total := 0.0
	for _, v := range scores {
		total += v
	}

	detected := len(positive) >= d.t.MinMarks
	conf := confidenceFor(len(positive), 3, 2)

	interpretation := "No promoter-like regulatory activity detected."
	if detected {
		interpretation = fmt.Sprintf("Promoter-like regulatory activity detected (%s confidence).", conf)
	}

	return Result{
		IsDetected:         detected,
		Confidence:         conf,
		Algorithm:          d.algorithm,
		CriteriaName:       d.t.Name,
		PositiveMarks:      positive,
		EvidenceScores:     scores,
		TotalEvidenceScore: total,
		Interpretation:     interpretation,
		CriteriaUsed: map[string]float64{
			"h3k4me3_min_increase": d.t.H3K4me3,
			"dnase_min_increase":   d.t.DNase,
			"rna_min_increase":     d.t.RNA,
			"min_marks_required":   float64(d.t.MinMarks),
		},
	}
}
