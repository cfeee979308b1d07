// Package signal models AlphaGenome variant-effect summaries and the
// JSONL records that pair them with cBioPortal mutations.
//
// Summaries arrive as loosely structured maps. Every lookup defaults to
// zero (or false) so that a missing or malformed field reads as absence of
// signal rather than as an error.
package signal

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Summary keys as emitted by the AlphaGenome client.
const (
	KeyDNase       = "dnase"
	KeyATAC        = "atac"
	KeyRNASeq      = "rna_seq"
	KeyCAGE        = "cage"
	KeyChipHistone = "chip_histone"
	KeyMarks       = "marks"
	KeyTissue      = "tissue"
	KeyAlleleBias  = "allele_bias"
	KeyBackground  = "background_statistics"
)

// Histone mark names.
const (
	MarkH3K27ac  = "H3K27ac"
	MarkH3K4me1  = "H3K4me1"
	MarkH3K4me3  = "H3K4me3"
	MarkH3K36me3 = "H3K36me3"
	MarkH3K27me3 = "H3K27me3"
)

// Track is the per-modality or per-mark summary of a predicted signal change.
type Track struct {
	MaxIncrease float64 // largest ALT-REF increase across tracks
	ZScore      float64 // pre-normalized z-score, valid when HasZScore
	HasZScore   bool
}

// CAGE holds the TSS/CAGE summary used to infer enhancer RNA.
type CAGE struct {
	MaxSignal     float64
	Bidirectional bool
}

// Background holds per-mark background statistics for z-score normalization.
type Background struct {
	Mean float64
	Std  float64
}

// Summary is a parsed AlphaGenome variant-effect summary.
type Summary struct {
	DNase         Track
	ATAC          Track
	RNASeq        Track
	PolyAIncrease float64
	CAGE          CAGE
	Histone       map[string]Track      // keyed by mark name, e.g. "H3K27ac"
	Background    map[string]Background // keyed by lower-case mark name
	Tissue        string
	AlleleBias    bool
}

// Mark returns the summary for a histone mark. Lookup is exact first, then
// case-insensitive; an absent mark is the zero Track.
func (s Summary) Mark(name string) Track {
	if t, ok := s.Histone[name]; ok {
		return t
	}
	for k, t := range s.Histone {
		if strings.EqualFold(k, name) {
			return t
		}
	}
	return Track{}
}

// IsEmpty reports whether the summary carries no recognized signal.
func (s Summary) IsEmpty() bool {
	return s.DNase == (Track{}) && s.ATAC == (Track{}) && s.RNASeq == (Track{}) &&
		s.PolyAIncrease == 0 && s.CAGE == (CAGE{}) && len(s.Histone) == 0 && !s.AlleleBias
}

// FromMap builds a Summary from a decoded JSON/YAML mapping. Unrecognized
// keys are ignored and values of the wrong shape read as zero.
func FromMap(m map[string]any) Summary {
	rna := asMap(m[KeyRNASeq])
	cage := asMap(m[KeyCAGE])

	s := Summary{
		DNase:         trackFromMap(asMap(m[KeyDNase])),
		ATAC:          trackFromMap(asMap(m[KeyATAC])),
		RNASeq:        trackFromMap(rna),
		PolyAIncrease: toFloat(rna["polya_increase"]),
		CAGE: CAGE{
			MaxSignal:     toFloat(cage["max_signal"]),
			Bidirectional: cast.ToBool(cage["bidirectional"]),
		},
		Tissue:     cast.ToString(m[KeyTissue]),
		AlleleBias: cast.ToBool(m[KeyAlleleBias]),
	}

	marks := asMap(asMap(m[KeyChipHistone])[KeyMarks])
	if len(marks) > 0 {
		s.Histone = make(map[string]Track, len(marks))
		for name, v := range marks {
			s.Histone[name] = trackFromMap(asMap(v))
		}
	}

	bg := asMap(m[KeyBackground])
	if len(bg) > 0 {
		s.Background = make(map[string]Background, len(bg))
		for name, v := range bg {
			stats := asMap(v)
			if len(stats) == 0 {
				continue
			}
			std := 1.0
			if raw, ok := stats["std"]; ok {
				std = toFloat(raw)
			}
			s.Background[strings.ToLower(name)] = Background{
				Mean: toFloat(stats["mean"]),
				Std:  std,
			}
		}
	}

	return s
}

func trackFromMap(m map[string]any) Track {
	t := Track{MaxIncrease: toFloat(m["max_increase"])}
	for _, key := range []string{"zscore", "z_score"} {
		if raw, ok := m[key]; ok {
			t.ZScore = toFloat(raw)
			t.HasZScore = true
			break
		}
	}
	return t
}

// asMap converts v to a string-keyed map, returning nil for anything that
// is not map-shaped.
func asMap(v any) map[string]any {
	if v == nil {
		return nil
	}
	m, err := cast.ToStringMapE(v)
	if err != nil {
		return nil
	}
	return m
}

// toFloat converts v to a finite float64; NaN, infinities and
// unconvertible values read as zero.
func toFloat(v any) float64 {
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
