package enhancer

import "strconv"

// AlgorithmName and AlgorithmVersion identify the weighted scorer in report
// provenance sections.
const (
	AlgorithmName    = "Weighted Enhancer Scorer"
	AlgorithmVersion = "2.0"
)

// Description is the provenance metadata of a scoring run.
type Description struct {
	Name            string             `json:"name" yaml:"name"`
	Version         string             `json:"version" yaml:"version"`
	MaxScore        float64            `json:"max_score" yaml:"max_score"`
	Weights         map[string]float64 `json:"weights" yaml:"weights"`
	Penalties       map[string]float64 `json:"penalties" yaml:"penalties"`
	Bonuses         map[string]float64 `json:"bonuses" yaml:"bonuses"`
	Thresholds      map[string]float64 `json:"thresholds" yaml:"thresholds"`
	ConfidenceRules map[string]string  `json:"confidence_rules" yaml:"confidence_rules"`
	PreFilters      []string           `json:"pre_filters" yaml:"pre_filters"`
}

// Describe returns the weights, thresholds, confidence rules and
// pre-filters in effect for c.
func Describe(c Criteria) Description {
	window := strconv.FormatInt(PromoterWindow/1000, 10)
	return Description{
		Name:     AlgorithmName,
		Version:  AlgorithmVersion,
		MaxScore: c.MaxScore,
		Weights: map[string]float64{
			ComponentH3K27ac:       c.H3K27acWeight,
			ComponentH3K4me1:       c.H3K4me1Weight,
			ComponentAccessibility: c.AccessibilityWeight,
			ComponentERNA:          c.ERNAWeight,
		},
		Penalties: map[string]float64{
			ComponentGeneBodyPenalty: c.GeneBodyPenalty,
			ComponentPromoterPenalty: c.PromoterPenalty,
		},
		Bonuses: map[string]float64{
			ComponentAlleleBonus: c.AlleleSpecificBonus,
		},
		Thresholds: map[string]float64{
			"H3K27ac_zscore":       c.H3K27acThreshold,
			"H3K4me1_zscore":       c.H3K4me1Threshold,
			"Accessibility_zscore": c.AccessibilityThreshold,
			"H3K4me3_zscore":       c.H3K4me3Threshold,
			"H3K36me3_zscore":      c.H3K36me3Threshold,
			"H3K27me3_zscore":      poisedH3K27me3Threshold,
		},
		ConfidenceRules: map[string]string{
			"HIGH":     "score >= 8.0 and >= 2 replicates and cell-type matched",
			"MODERATE": "5.0 <= score < 8.0 and cell-type matched",
			"LOW":      "score < 5.0, or no cell-type match, or a single replicate at >= 8.0",
		},
		PreFilters: []string{
			"Exons excluded",
			"Coding variants excluded",
			"Within " + window + "kb of a TSS excluded",
		},
	}
}
