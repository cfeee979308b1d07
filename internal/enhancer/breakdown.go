package enhancer

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// BreakdownLine is one reported component of a score.
type BreakdownLine struct {
	Name  string
	Score float64
}

// Breakdown returns the components of a result sorted by absolute
// contribution, largest first. Ties keep evaluation order; components
// unknown to the scorer sort by name after known ones.
func Breakdown(components map[string]float64) []BreakdownLine {
	lines := make([]BreakdownLine, 0, len(components))
	for _, name := range componentOrder {
		if v, ok := components[name]; ok {
			lines = append(lines, BreakdownLine{Name: name, Score: v})
		}
	}
	var extra []string
	for name := range components {
		if !isKnownComponent(name) {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		lines = append(lines, BreakdownLine{Name: name, Score: components[name]})
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return math.Abs(lines[i].Score) > math.Abs(lines[j].Score)
	})
	return lines
}

// FormatBreakdown renders a score and its components as text, one
// sign-annotated line per component:
//
//	Total Score: 8.0/10.0
//
//	Component Breakdown:
//	  + H3K27ac: 4.0
//	  - Gene_body_penalty: 2.0
//	    eRNA: 0.0
func FormatBreakdown(r Result, maxScore float64) string {
	var sb strings.Builder
	sb.WriteString("Total Score: ")
	sb.WriteString(formatScore(r.TotalScore))
	sb.WriteByte('/')
	sb.WriteString(formatScore(maxScore))
	sb.WriteString("\n\nComponent Breakdown:")

	for _, l := range Breakdown(r.Components) {
		sb.WriteByte('\n')
		sb.WriteString(FormatBreakdownLine(l))
	}
	return sb.String()
}

// FormatBreakdownLine renders a single component line.
func FormatBreakdownLine(l BreakdownLine) string {
	switch {
	case l.Score > 0:
		return "  + " + l.Name + ": " + formatScore(l.Score)
	case l.Score < 0:
		return "  - " + l.Name + ": " + formatScore(-l.Score)
	default:
		return "    " + l.Name + ": 0.0"
	}
}

func isKnownComponent(name string) bool {
	for _, c := range componentOrder {
		if c == name {
			return true
		}
	}
	return false
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
