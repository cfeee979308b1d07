package enhancer

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCriteria is returned when scoring criteria fail validation.
var ErrInvalidCriteria = errors.New("invalid scoring criteria")

// Criteria holds the weights, penalties, bonus and thresholds of the
// weighted scorer. Thresholds are in z-score units. A Criteria value is
// copied into a Scorer and never mutated afterwards.
type Criteria struct {
	// Core marks
	H3K27acWeight       float64 `mapstructure:"h3k27ac_weight" yaml:"h3k27ac_weight"`
	H3K4me1Weight       float64 `mapstructure:"h3k4me1_weight" yaml:"h3k4me1_weight"`
	AccessibilityWeight float64 `mapstructure:"accessibility_weight" yaml:"accessibility_weight"`
	ERNAWeight          float64 `mapstructure:"erna_weight" yaml:"erna_weight"`

	// Penalties are negative contributions.
	GeneBodyPenalty float64 `mapstructure:"gene_body_penalty" yaml:"gene_body_penalty"`
	PromoterPenalty float64 `mapstructure:"promoter_penalty" yaml:"promoter_penalty"`

	AlleleSpecificBonus float64 `mapstructure:"allele_specific_bonus" yaml:"allele_specific_bonus"`

	H3K27acThreshold       float64 `mapstructure:"h3k27ac_threshold" yaml:"h3k27ac_threshold"`
	H3K4me1Threshold       float64 `mapstructure:"h3k4me1_threshold" yaml:"h3k4me1_threshold"`
	AccessibilityThreshold float64 `mapstructure:"accessibility_threshold" yaml:"accessibility_threshold"`
	H3K4me3Threshold       float64 `mapstructure:"h3k4me3_threshold" yaml:"h3k4me3_threshold"`
	H3K36me3Threshold      float64 `mapstructure:"h3k36me3_threshold" yaml:"h3k36me3_threshold"`

	MaxScore float64 `mapstructure:"max_score" yaml:"max_score"`
}

// DefaultCriteria returns the standard scoring criteria. The four positive
// weights sum to MaxScore.
func DefaultCriteria() Criteria {
	return Criteria{
		H3K27acWeight:       4.0,
		H3K4me1Weight:       2.0,
		AccessibilityWeight: 2.0,
		ERNAWeight:          2.0,

		GeneBodyPenalty: -2.0,
		PromoterPenalty: -1.0,

		AlleleSpecificBonus: 1.0,

		H3K27acThreshold:       2.0,
		H3K4me1Threshold:       2.0,
		AccessibilityThreshold: 1.5,
		H3K4me3Threshold:       1.0,
		H3K36me3Threshold:      1.0,

		MaxScore: 10.0,
	}
}

// Validate checks that every value is finite, weights are positive,
// penalties are not positive, the bonus and thresholds are not negative,
// and MaxScore is positive.
func (c Criteria) Validate() error {
	all := []struct {
		name string
		v    float64
	}{
		{"h3k27ac_weight", c.H3K27acWeight},
		{"h3k4me1_weight", c.H3K4me1Weight},
		{"accessibility_weight", c.AccessibilityWeight},
		{"erna_weight", c.ERNAWeight},
		{"gene_body_penalty", c.GeneBodyPenalty},
		{"promoter_penalty", c.PromoterPenalty},
		{"allele_specific_bonus", c.AlleleSpecificBonus},
		{"h3k27ac_threshold", c.H3K27acThreshold},
		{"h3k4me1_threshold", c.H3K4me1Threshold},
		{"accessibility_threshold", c.AccessibilityThreshold},
		{"h3k4me3_threshold", c.H3K4me3Threshold},
		{"h3k36me3_threshold", c.H3K36me3Threshold},
		{"max_score", c.MaxScore},
	}
	for _, f := range all {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be finite, got %g", ErrInvalidCriteria, f.name, f.v)
		}
	}

	positive := []struct {
		name string
		v    float64
	}{
		{"h3k27ac_weight", c.H3K27acWeight},
		{"h3k4me1_weight", c.H3K4me1Weight},
		{"accessibility_weight", c.AccessibilityWeight},
		{"erna_weight", c.ERNAWeight},
		{"max_score", c.MaxScore},
	}
	for _, f := range positive {
		if !(f.v > 0) {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidCriteria, f.name, f.v)
		}
	}

	if !(c.GeneBodyPenalty <= 0) {
		return fmt.Errorf("%w: gene_body_penalty must not be positive, got %g", ErrInvalidCriteria, c.GeneBodyPenalty)
	}
	if !(c.PromoterPenalty <= 0) {
		return fmt.Errorf("%w: promoter_penalty must not be positive, got %g", ErrInvalidCriteria, c.PromoterPenalty)
	}

	nonNeg := []struct {
		name string
		v    float64
	}{
		{"allele_specific_bonus", c.AlleleSpecificBonus},
		{"h3k27ac_threshold", c.H3K27acThreshold},
		{"h3k4me1_threshold", c.H3K4me1Threshold},
		{"accessibility_threshold", c.AccessibilityThreshold},
		{"h3k4me3_threshold", c.H3K4me3Threshold},
		{"h3k36me3_threshold", c.H3K36me3Threshold},
	}
	for _, f := range nonNeg {
		if !(f.v >= 0) {
			return fmt.Errorf("%w: %s must not be negative, got %g", ErrInvalidCriteria, f.name, f.v)
		}
	}
	return nil
}
