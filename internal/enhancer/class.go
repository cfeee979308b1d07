// Package enhancer implements the weighted enhancer scoring engine: the
// gene-proximal pre-filter, the additive scorer, the chromatin-state
// classifier and the confidence estimator.
package enhancer

// Class is the chromatin-state classification of a scored region.
type Class string

// Enhancer classes.
const (
	ClassNotApplicable Class = "not_applicable" // gene-proximal, not scored
	ClassNone          Class = "none"           // no enhancer signature
	ClassPrimed        Class = "primed"         // H3K4me1+, accessible, H3K27ac-
	ClassActive        Class = "active"         // H3K27ac+, accessible
	ClassPoised        Class = "poised"         // H3K4me1+, H3K27me3+
)

// Confidence is the confidence tier attached to a score or detection call.
type Confidence string

// Confidence levels.
const (
	ConfidenceHigh          Confidence = "high"
	ConfidenceModerate      Confidence = "moderate"
	ConfidenceLow           Confidence = "low"
	ConfidenceNotApplicable Confidence = "not_applicable"
)

// ConfidenceRank returns numeric rank for confidence comparison (higher = more confident).
func ConfidenceRank(c Confidence) int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceModerate:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}
