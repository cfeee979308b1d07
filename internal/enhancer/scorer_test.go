package enhancer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func distal() GenomicContext {
	return GenomicContext{DistanceToTSS: 50000}
}

func TestScore_FullActiveEnhancer(t *testing.T) {
	ev := EvidenceFromMap(map[string]any{
		"h3k27ac_zscore":       3.0,
		"h3k4me1_zscore":       3.0,
		"accessibility_zscore": 2.0,
		"is_likely_erna":       true,
	})

	r := NewDefaultScorer().Score(ev, distal(), true, 2)

	assert.Equal(t, 10.0, r.TotalScore)
	assert.Equal(t, ClassActive, r.Class)
	assert.Equal(t, ConfidenceHigh, r.Confidence)
	assert.Equal(t, map[string]float64{
		ComponentH3K27ac:       4.0,
		ComponentH3K4me1:       2.0,
		ComponentAccessibility: 2.0,
		ComponentERNA:          2.0,
	}, r.Components)
}

func TestScore_PrimedWithoutH3K27ac(t *testing.T) {
	ev := EvidenceFromMap(map[string]any{
		"h3k4me1_zscore":       2.5,
		"accessibility_zscore": 2.0,
	})

	r := NewDefaultScorer().Score(ev, distal(), true, 1)

	require.Contains(t, r.Components, ComponentH3K27ac)
	assert.Equal(t, 0.0, r.Components[ComponentH3K27ac])
	assert.Equal(t, ClassPrimed, r.Class)
	assert.Equal(t, 4.0, r.TotalScore)
	assert.Equal(t, ConfidenceLow, r.Confidence)
}

func TestScore_GeneBodyPenalty(t *testing.T) {
	base := map[string]any{
		"h3k27ac_zscore":       3.0,
		"h3k4me1_zscore":       3.0,
		"accessibility_zscore": 2.0,
	}
	s := NewDefaultScorer()
	clean := s.Score(EvidenceFromMap(base), distal(), true, 2)

	base["h3k36me3_zscore"] = 1.5
	penalized := s.Score(EvidenceFromMap(base), distal(), true, 2)

	assert.Equal(t, clean.TotalScore-2.0, penalized.TotalScore)
	assert.Equal(t, -2.0, penalized.Components[ComponentGeneBodyPenalty])
	assert.NotContains(t, clean.Components, ComponentGeneBodyPenalty)
}

func TestScore_GeneProximalIsNotApplicable(t *testing.T) {
	ev := Evidence{
		Accessibility: 10, H3K27ac: 10, H3K4me1: 10,
		IsLikelyERNA: true, HasAlleleBias: true,
	}
	tests := []struct {
		name string
		ctx  GenomicContext
	}{
		{"coding", GenomicContext{IsCoding: true, DistanceToTSS: UnknownTSSDistance}},
		{"exon", GenomicContext{IsExon: true, DistanceToTSS: 100000}},
		{"at TSS", GenomicContext{DistanceToTSS: 0}},
		{"upstream edge", GenomicContext{DistanceToTSS: -2000}},
		{"downstream edge", GenomicContext{DistanceToTSS: 2000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewDefaultScorer().Score(ev, tt.ctx, true, 3)
			assert.Equal(t, 0.0, r.TotalScore)
			assert.Equal(t, ClassNotApplicable, r.Class)
			assert.Equal(t, ConfidenceNotApplicable, r.Confidence)
			assert.NotNil(t, r.Components)
			assert.Empty(t, r.Components)
		})
	}
}

func TestScore_JustOutsidePromoterWindowIsScored(t *testing.T) {
	ev := Evidence{H3K27ac: 3, Accessibility: 2}
	for _, d := range []int64{2001, -2001, UnknownTSSDistance, math.MinInt64} {
		r := NewDefaultScorer().Score(ev, GenomicContext{DistanceToTSS: d}, true, 1)
		assert.Equal(t, 6.0, r.TotalScore, "distance %d", d)
		assert.Equal(t, ClassActive, r.Class, "distance %d", d)
	}
}

func TestScore_ThresholdGating(t *testing.T) {
	tests := []struct {
		name      string
		ev        Evidence
		component string
		want      float64
	}{
		{"H3K27ac at threshold", Evidence{H3K27ac: 2.0}, ComponentH3K27ac, 4.0},
		{"H3K27ac below threshold", Evidence{H3K27ac: 1.99}, ComponentH3K27ac, 0},
		{"H3K4me1 at threshold", Evidence{H3K4me1: 2.0}, ComponentH3K4me1, 2.0},
		{"accessibility at threshold", Evidence{Accessibility: 1.5}, ComponentAccessibility, 2.0},
		{"accessibility below threshold", Evidence{Accessibility: 1.49}, ComponentAccessibility, 0},
		{"eRNA flag", Evidence{IsLikelyERNA: true}, ComponentERNA, 2.0},
		{"no eRNA flag", Evidence{CAGE: 50, RNA: 50}, ComponentERNA, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Score(tt.ev, distal(), true, 1, DefaultCriteria())
			require.Contains(t, r.Components, tt.component)
			assert.Equal(t, tt.want, r.Components[tt.component])
		})
	}
}

func TestScore_PenaltiesRequireStrictExcess(t *testing.T) {
	s := NewDefaultScorer()

	atThreshold := s.Score(Evidence{H3K36me3: 1.0, H3K4me3: 1.0}, distal(), true, 1)
	assert.NotContains(t, atThreshold.Components, ComponentGeneBodyPenalty)
	assert.NotContains(t, atThreshold.Components, ComponentPromoterPenalty)

	above := s.Score(Evidence{H3K27ac: 3, H3K36me3: 1.01, H3K4me3: 1.01}, distal(), true, 1)
	assert.Equal(t, -2.0, above.Components[ComponentGeneBodyPenalty])
	assert.Equal(t, -1.0, above.Components[ComponentPromoterPenalty])
	assert.Equal(t, 1.0, above.TotalScore)
}

func TestScore_ClampedToRange(t *testing.T) {
	s := NewDefaultScorer()

	low := s.Score(Evidence{H3K36me3: 5, H3K4me3: 5}, distal(), true, 1)
	assert.Equal(t, 0.0, low.TotalScore)
	assert.Equal(t, ClassNone, low.Class)

	high := s.Score(Evidence{
		H3K27ac: 5, H3K4me1: 5, Accessibility: 5,
		IsLikelyERNA: true, HasAlleleBias: true,
	}, distal(), true, 2)
	assert.Equal(t, 10.0, high.TotalScore)
	assert.Equal(t, 1.0, high.Components[ComponentAlleleBonus])
}

func TestScore_Idempotent(t *testing.T) {
	ev := Evidence{H3K27ac: 2.5, H3K4me1: 2.1, Accessibility: 1.7, H3K4me3: 1.3}
	s := NewDefaultScorer()
	first := s.Score(ev, distal(), true, 2)
	second := s.Score(ev, distal(), true, 2)
	assert.Equal(t, first, second)
}

func TestScore_CustomCriteria(t *testing.T) {
	c := DefaultCriteria()
	c.H3K27acThreshold = 4.0
	c.MaxScore = 6.0

	s, err := NewScorer(c)
	require.NoError(t, err)
	assert.Equal(t, c, s.Criteria())

	r := s.Score(Evidence{H3K27ac: 3, H3K4me1: 3, Accessibility: 3, IsLikelyERNA: true}, distal(), true, 2)
	assert.Equal(t, 0.0, r.Components[ComponentH3K27ac])
	assert.Equal(t, 6.0, r.TotalScore)
	assert.Equal(t, ClassPrimed, r.Class)
}

func TestNewScorer_RejectsInvalidCriteria(t *testing.T) {
	c := DefaultCriteria()
	c.GeneBodyPenalty = 2.0
	_, err := NewScorer(c)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCriteria)

	c = DefaultCriteria()
	c.GeneBodyPenalty = math.NaN()
	_, err = NewScorer(c)
	assert.ErrorIs(t, err, ErrInvalidCriteria)

	c = DefaultCriteria()
	c.H3K27acWeight = math.Inf(1)
	c.GeneBodyPenalty = math.Inf(-1)
	_, err = NewScorer(c)
	assert.ErrorIs(t, err, ErrInvalidCriteria)
}
