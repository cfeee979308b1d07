package enhancer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		components map[string]float64
		ev         Evidence
		want       Class
	}{
		{
			name:       "active",
			components: map[string]float64{ComponentH3K27ac: 4, ComponentAccessibility: 2},
			want:       ClassActive,
		},
		{
			name:       "primed",
			components: map[string]float64{ComponentH3K27ac: 0, ComponentH3K4me1: 2, ComponentAccessibility: 2},
			want:       ClassPrimed,
		},
		{
			name:       "poised",
			components: map[string]float64{ComponentH3K4me1: 2},
			ev:         Evidence{H3K27me3: 2.5},
			want:       ClassPoised,
		},
		{
			name:       "H3K27me3 at threshold is not poised",
			components: map[string]float64{ComponentH3K4me1: 2},
			ev:         Evidence{H3K27me3: 2.0},
			want:       ClassNone,
		},
		{
			name: "active wins over poised",
			components: map[string]float64{
				ComponentH3K27ac: 4, ComponentH3K4me1: 2, ComponentAccessibility: 2,
			},
			ev:   Evidence{H3K27me3: 3.0},
			want: ClassActive,
		},
		{
			name:       "H3K27ac without accessibility",
			components: map[string]float64{ComponentH3K27ac: 4},
			want:       ClassNone,
		},
		{
			name:       "empty",
			components: map[string]float64{},
			want:       ClassNone,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.components, tt.ev))
		})
	}
}

func TestEstimateConfidence(t *testing.T) {
	tests := []struct {
		name       string
		score      float64
		matched    bool
		replicates int
		want       Confidence
	}{
		{"unmatched high score", 10, false, 5, ConfidenceLow},
		{"high", 8, true, 2, ConfidenceHigh},
		{"high score single replicate", 9, true, 1, ConfidenceLow},
		{"moderate lower edge", 5, true, 1, ConfidenceModerate},
		{"moderate upper", 7.9, true, 3, ConfidenceModerate},
		{"low", 4.9, true, 3, ConfidenceLow},
		{"zero", 0, true, 1, ConfidenceLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateConfidence(tt.score, tt.matched, tt.replicates))
		})
	}
}

func TestConfidenceRank(t *testing.T) {
	assert.Greater(t, ConfidenceRank(ConfidenceHigh), ConfidenceRank(ConfidenceModerate))
	assert.Greater(t, ConfidenceRank(ConfidenceModerate), ConfidenceRank(ConfidenceLow))
	assert.Greater(t, ConfidenceRank(ConfidenceLow), ConfidenceRank(ConfidenceNotApplicable))
}
