package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariantTypes(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		alt     string
		isSNV   bool
		isIndel bool
	}{
		{"SNV", "C", "A", true, false},
		{"MNV", "CC", "AA", false, false},
		{"deletion", "CTG", "", false, true},
		{"insertion", "", "TT", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Variant{Chrom: "12", Pos: 25245350, Ref: tt.ref, Alt: tt.alt}
			assert.Equal(t, tt.isSNV, v.IsSNV())
			assert.Equal(t, tt.isIndel, v.IsIndel())
		})
	}
}

func TestNormalizeChrom(t *testing.T) {
	assert.Equal(t, "12", NormalizeChrom("chr12"))
	assert.Equal(t, "12", NormalizeChrom("CHR12"))
	assert.Equal(t, "X", NormalizeChrom("chrX"))
	assert.Equal(t, "12", NormalizeChrom("12"))
	assert.Equal(t, "chr", NormalizeChrom("chr"))
}

func TestKey(t *testing.T) {
	a := &Variant{Chrom: "chr12", Pos: 25245350, Ref: "C", Alt: "A"}
	b := &Variant{Chrom: "12", Pos: 25245350, Ref: "C", Alt: "A"}

	assert.Equal(t, "12_25245350_C/A", a.Key())
	assert.Equal(t, a.Key(), b.Key())
}

func TestNormalizeID(t *testing.T) {
	assert.Equal(t, "12_25245350_C/A", NormalizeID("chr12_25245350_C/A"))
	assert.Equal(t, "12_25245350_C/A", NormalizeID("12_25245350_C/A"))
	assert.Equal(t, "rs121913529", NormalizeID("rs121913529"))
}
