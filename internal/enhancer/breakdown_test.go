package enhancer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBreakdown(t *testing.T) {
	r := Result{
		TotalScore: 5.0,
		Components: map[string]float64{
			ComponentH3K27ac:         4.0,
			ComponentH3K4me1:         2.0,
			ComponentAccessibility:   2.0,
			ComponentERNA:            0.0,
			ComponentGeneBodyPenalty: -2.0,
			ComponentPromoterPenalty: -1.0,
		},
	}

	want := "Total Score: 5.0/10.0\n" +
		"\n" +
		"Component Breakdown:\n" +
		"  + H3K27ac: 4.0\n" +
		"  + H3K4me1: 2.0\n" +
		"  + Accessibility: 2.0\n" +
		"  - Gene_body_penalty: 2.0\n" +
		"  - Promoter_penalty: 1.0\n" +
		"    eRNA: 0.0"
	assert.Equal(t, want, FormatBreakdown(r, 10.0))
}

func TestFormatBreakdown_NotApplicable(t *testing.T) {
	r := Score(Evidence{H3K27ac: 5}, GenomicContext{IsCoding: true}, true, 1, DefaultCriteria())
	assert.Equal(t, "Total Score: 0.0/10.0\n\nComponent Breakdown:", FormatBreakdown(r, 10.0))
}

func TestBreakdown_UnknownComponentsSortLast(t *testing.T) {
	lines := Breakdown(map[string]float64{"zeta": 1, "alpha": 1, ComponentERNA: 1})
	assert.Equal(t, []BreakdownLine{
		{Name: ComponentERNA, Score: 1},
		{Name: "alpha", Score: 1},
		{Name: "zeta", Score: 1},
	}, lines)
}

func TestDescribe(t *testing.T) {
	d := Describe(DefaultCriteria())
	assert.Equal(t, AlgorithmName, d.Name)
	assert.Equal(t, "2.0", d.Version)
	assert.Equal(t, 10.0, d.MaxScore)
	assert.Equal(t, 4.0, d.Weights[ComponentH3K27ac])
	assert.Equal(t, -2.0, d.Penalties[ComponentGeneBodyPenalty])
	assert.Equal(t, 1.0, d.Bonuses[ComponentAlleleBonus])
	assert.Equal(t, 1.5, d.Thresholds["Accessibility_zscore"])
	assert.Contains(t, d.ConfidenceRules, "HIGH")
	assert.Contains(t, d.PreFilters, "Within 2kb of a TSS excluded")
}
