// Package detect implements threshold-based enhancer and promoter detection
// on raw AlphaGenome signal increases, with selectable presets and
// tissue-specific threshold scaling.
package detect

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAlgorithm is returned for an unrecognized preset name.
var ErrUnknownAlgorithm = errors.New("unknown detection algorithm")

// Algorithm names a detection preset.
type Algorithm string

// Detection presets, from most to least specific.
const (
	Conservative Algorithm = "conservative"
	Balanced     Algorithm = "balanced"
	Sensitive    Algorithm = "sensitive"
)

// Algorithms lists the presets in order of decreasing specificity.
var Algorithms = []Algorithm{Conservative, Balanced, Sensitive}

// ParseAlgorithm resolves a preset name case-insensitively.
func ParseAlgorithm(name string) (Algorithm, error) {
	a := Algorithm(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := enhancerPresets[a]; !ok {
		return "", fmt.Errorf("%w: %q (want conservative, balanced or sensitive)", ErrUnknownAlgorithm, name)
	}
	return a, nil
}

// Description returns a one-line summary of the preset's trade-off.
func (a Algorithm) Description() string {
	switch a {
	case Conservative:
		return "High specificity, low false positive rate"
	case Balanced:
		return "Balanced sensitivity and specificity"
	case Sensitive:
		return "High sensitivity, may have more false positives"
	default:
		return "Unknown algorithm"
	}
}

// Thresholds are the minimum signal increases for a mark to count as
// positive. H3K4me3 is a ceiling rather than a minimum.
type Thresholds struct {
	Name        string  `json:"name" yaml:"name"`
	DNase       float64 `json:"dnase_min_increase" yaml:"dnase_min_increase"`
	H3K27ac     float64 `json:"h3k27ac_min_increase" yaml:"h3k27ac_min_increase"`
	H3K4me1     float64 `json:"h3k4me1_min_increase" yaml:"h3k4me1_min_increase"`
	H3K4me3     float64 `json:"h3k4me3_max_increase" yaml:"h3k4me3_max_increase"`
	RNA         float64 `json:"rna_min_increase" yaml:"rna_min_increase"`
	MinMarks    int     `json:"min_marks_required" yaml:"min_marks_required"`
	HighMarks   int     `json:"high_confidence_marks" yaml:"high_confidence_marks"`
	MediumMarks int     `json:"moderate_confidence_marks" yaml:"moderate_confidence_marks"`
}

var enhancerPresets = map[Algorithm]Thresholds{
	Conservative: {
		Name:  "Conservative Enhancer Detection",
		DNase: 0.05, H3K27ac: 0.2, H3K4me1: 0.1, H3K4me3: -0.05, RNA: 0.001,
		MinMarks: 3, HighMarks: 4, MediumMarks: 3,
	},
	Balanced: {
		Name:  "Balanced Enhancer Detection",
		DNase: 0.02, H3K27ac: 0.1, H3K4me1: 0.05, H3K4me3: 0.0, RNA: 0.0005,
		MinMarks: 2, HighMarks: 3, MediumMarks: 2,
	},
	Sensitive: {
		Name:  "Sensitive Enhancer Detection",
		DNase: 0.01, H3K27ac: 0.05, H3K4me1: 0.02, H3K4me3: 0.05, RNA: 0.0001,
		MinMarks: 1, HighMarks: 3, MediumMarks: 2,
	},
}
