package enhancer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-enhancer/internal/signal"
)

func TestEvidenceFromMap(t *testing.T) {
	ev := EvidenceFromMap(map[string]any{
		"h3k27ac_zscore":  "2.5",
		"dnase_zscore":    1.2,
		"atac_zscore":     1.8,
		"h3k36me3_zscore": -3.0,
		"cage_signal":     math.NaN(),
		"is_likely_erna":  "true",
		"unrelated":       []int{1},
	})

	assert.Equal(t, 2.5, ev.H3K27ac)
	assert.Equal(t, 1.8, ev.Accessibility)
	assert.Equal(t, 0.0, ev.H3K36me3)
	assert.Equal(t, 0.0, ev.CAGE)
	assert.True(t, ev.IsLikelyERNA)
	assert.False(t, ev.HasAlleleBias)
}

func TestEvidenceFromMap_Nil(t *testing.T) {
	assert.Equal(t, Evidence{}, EvidenceFromMap(nil))
}

func TestExtractEvidence_DefaultBackground(t *testing.T) {
	s := signal.FromMap(map[string]any{
		"dnase": map[string]any{"max_increase": 0.11},
		"chip_histone": map[string]any{
			"marks": map[string]any{
				"H3K27ac": map[string]any{"max_increase": 0.21},
				"H3K4me1": map[string]any{"max_increase": 0.5, "zscore": 2.2},
			},
		},
	})

	ev := ExtractEvidence(s)
	assert.InDelta(t, 2.0, ev.Accessibility, 1e-9)
	assert.InDelta(t, 4.0, ev.H3K27ac, 1e-9)
	assert.Equal(t, 2.2, ev.H3K4me1)
	assert.Equal(t, 0.0, ev.H3K4me3)
}

func TestExtractEvidence_SummaryBackground(t *testing.T) {
	s := signal.FromMap(map[string]any{
		"chip_histone": map[string]any{
			"marks": map[string]any{"H3K27ac": map[string]any{"max_increase": 0.3}},
		},
		"background_statistics": map[string]any{
			"h3k27ac": map[string]any{"mean": 0.1, "std": 0.1},
		},
	})
	assert.InDelta(t, 2.0, ExtractEvidence(s).H3K27ac, 1e-9)
}

func TestExtractEvidence_BelowBackgroundClampsToZero(t *testing.T) {
	s := signal.FromMap(map[string]any{"dnase": map[string]any{"max_increase": 0.001}})
	assert.Equal(t, 0.0, ExtractEvidence(s).Accessibility)
}

func TestExtractEvidence_ERNA(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
		want bool
	}{
		{"bidirectional low polyA", map[string]any{
			"cage":    map[string]any{"max_signal": 0.4, "bidirectional": true},
			"rna_seq": map[string]any{"max_increase": 0.01, "polya_increase": 0.002},
		}, true},
		{"polyA dominated", map[string]any{
			"cage":    map[string]any{"max_signal": 0.4, "bidirectional": true},
			"rna_seq": map[string]any{"max_increase": 0.01, "polya_increase": 0.009},
		}, false},
		{"unidirectional", map[string]any{
			"cage": map[string]any{"max_signal": 0.4, "bidirectional": false},
		}, false},
		{"no CAGE signal", map[string]any{
			"cage": map[string]any{"max_signal": 0, "bidirectional": true},
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractEvidence(signal.FromMap(tt.in)).IsLikelyERNA)
		})
	}
}

func TestExtractEvidence_AlleleBias(t *testing.T) {
	ev := ExtractEvidence(signal.FromMap(map[string]any{"allele_bias": true}))
	require.True(t, ev.HasAlleleBias)
}
