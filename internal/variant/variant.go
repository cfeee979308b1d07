// Package variant provides the genomic variant model shared by the MAF
// reader, the signal index and the screening pipeline.
package variant

import (
	"strconv"
	"strings"
)

// Variant represents a single somatic mutation.
type Variant struct {
	Chrom string // Chromosome name (e.g., "12", "chr12")
	Pos   int64  // 1-based genomic position
	ID    string // Variant identifier, "." when absent
	Ref   string // Reference allele, empty for insertions
	Alt   string // Alternate allele, empty for deletions
}

// IsSNV returns true if the variant is a single nucleotide variant.
func (v *Variant) IsSNV() bool {
	return len(v.Ref) == 1 && len(v.Alt) == 1
}

// IsIndel returns true if the variant is an insertion or deletion.
func (v *Variant) IsIndel() bool {
	return len(v.Ref) != len(v.Alt)
}

// NormalizeChrom returns the chromosome name without "chr" prefix.
func (v *Variant) NormalizeChrom() string {
	return NormalizeChrom(v.Chrom)
}

// Key returns the normalized identifier used to join mutations with
// AlphaGenome signal records.
func (v *Variant) Key() string {
	return FormatID(v.Chrom, v.Pos, v.Ref, v.Alt)
}

// NormalizeChrom strips a leading "chr" prefix.
func NormalizeChrom(chrom string) string {
	if len(chrom) > 3 && strings.EqualFold(chrom[:3], "chr") {
		return chrom[3:]
	}
	return chrom
}

// FormatID creates a variant identifier (chrom_pos_ref/alt) with the
// chromosome normalized, so "chr12" and "12" produce the same key.
func FormatID(chrom string, pos int64, ref, alt string) string {
	return NormalizeChrom(chrom) + "_" + strconv.FormatInt(pos, 10) + "_" + ref + "/" + alt
}

// NormalizeID rewrites an identifier of the form chrom_pos_ref/alt so that
// its chromosome carries no "chr" prefix. Identifiers of any other shape
// are returned unchanged.
func NormalizeID(id string) string {
	chrom, rest, ok := strings.Cut(id, "_")
	if !ok {
		return id
	}
	return NormalizeChrom(chrom) + "_" + rest
}
