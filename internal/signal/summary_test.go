package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromMap_Nested(t *testing.T) {
	s := FromMap(map[string]any{
		"dnase": map[string]any{"max_increase": 0.15},
		"atac":  map[string]any{"max_increase": 0.04},
		"chip_histone": map[string]any{
			"marks": map[string]any{
				"H3K27ac": map[string]any{"max_increase": 0.25},
				"H3K4me1": map[string]any{"max_increase": 0.12, "zscore": 3.1},
			},
		},
		"rna_seq": map[string]any{"max_increase": 0.005, "polya_increase": 0.001},
		"cage":    map[string]any{"max_signal": 0.3, "bidirectional": true},
		"tissue":  "UBERON:0001264 pancreas",
	})

	assert.Equal(t, 0.15, s.DNase.MaxIncrease)
	assert.Equal(t, 0.04, s.ATAC.MaxIncrease)
	assert.Equal(t, 0.25, s.Mark(MarkH3K27ac).MaxIncrease)
	assert.False(t, s.Mark(MarkH3K27ac).HasZScore)
	assert.True(t, s.Mark(MarkH3K4me1).HasZScore)
	assert.Equal(t, 3.1, s.Mark(MarkH3K4me1).ZScore)
	assert.Equal(t, 0.005, s.RNASeq.MaxIncrease)
	assert.Equal(t, 0.001, s.PolyAIncrease)
	assert.Equal(t, 0.3, s.CAGE.MaxSignal)
	assert.True(t, s.CAGE.Bidirectional)
	assert.Equal(t, "UBERON:0001264 pancreas", s.Tissue)
	assert.False(t, s.IsEmpty())
}

func TestFromMap_MarkLookupIsCaseInsensitive(t *testing.T) {
	s := FromMap(map[string]any{
		"chip_histone": map[string]any{
			"marks": map[string]any{"h3k27ac": map[string]any{"max_increase": 0.2}},
		},
	})
	assert.Equal(t, 0.2, s.Mark(MarkH3K27ac).MaxIncrease)
	assert.Equal(t, Track{}, s.Mark(MarkH3K36me3))
}

func TestFromMap_MalformedInputReadsAsZero(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
	}{
		{"nil", nil},
		{"empty", map[string]any{}},
		{"unknown keys", map[string]any{"foo": 1, "bar": "baz"}},
		{"wrong shapes", map[string]any{
			"dnase":        "not a map",
			"chip_histone": []any{1, 2, 3},
			"rna_seq":      map[string]any{"max_increase": "abc"},
			"cage":         42,
		}},
		{"non-finite", map[string]any{
			"dnase": map[string]any{"max_increase": "NaN"},
			"atac":  map[string]any{"max_increase": "+Inf"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := FromMap(tt.in)
			assert.True(t, s.IsEmpty())
			assert.Zero(t, s.DNase.MaxIncrease)
			assert.Zero(t, s.Mark(MarkH3K27ac).MaxIncrease)
		})
	}
}

func TestFromMap_NumericStrings(t *testing.T) {
	s := FromMap(map[string]any{
		"dnase": map[string]any{"max_increase": "0.07"},
		"cage":  map[string]any{"bidirectional": "true", "max_signal": 1},
	})
	assert.Equal(t, 0.07, s.DNase.MaxIncrease)
	assert.True(t, s.CAGE.Bidirectional)
	assert.Equal(t, 1.0, s.CAGE.MaxSignal)
}

func TestFromMap_Background(t *testing.T) {
	s := FromMap(map[string]any{
		"background_statistics": map[string]any{
			"H3K27ac": map[string]any{"mean": 0.02, "std": 0.1},
			"dnase":   map[string]any{"mean": 0.01},
			"junk":    "x",
		},
	})
	assert.Equal(t, Background{Mean: 0.02, Std: 0.1}, s.Background["h3k27ac"])
	assert.Equal(t, Background{Mean: 0.01, Std: 1.0}, s.Background["dnase"])
	assert.NotContains(t, s.Background, "junk")
}
