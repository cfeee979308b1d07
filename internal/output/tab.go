// Package output provides screening result formatters.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-enhancer/internal/enhancer"
	"github.com/inodb/vibe-enhancer/internal/screen"
)

// TabColumns are the columns written by TabWriter, in order.
var TabColumns = []string{
	"#Variant",
	"Location",
	"Gene",
	"Sample",
	"Consequence",
	"Tissue",
	"Gene_Proximal",
	"Distance_To_TSS",
	"Enhancer_Score",
	"Enhancer_Class",
	"Score_Confidence",
	"Detected",
	"Detection_Confidence",
	"Positive_Marks",
	"Evidence_Score",
	"Promoter_Like",
	"Interpretation",
}

// TabWriter writes screening results in tab-delimited format.
type TabWriter struct {
	w *bufio.Writer
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{w: bufio.NewWriter(w)}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(TabColumns, "\t") + "\n")
	return err
}

// Write writes a single result.
func (tw *TabWriter) Write(r *screen.Result) error {
	gene, sample, consequence := "-", "-", "-"
	if ann := r.Annotation; ann != nil {
		gene = orDash(ann.HugoSymbol)
		sample = orDash(ann.SampleID)
		consequence = orDash(ann.ConsequenceTerms())
	}

	distance := "-"
	if r.Context.DistanceToTSS != enhancer.UnknownTSSDistance {
		distance = strconv.FormatInt(r.Context.DistanceToTSS, 10)
	}

	values := []string{
		r.VariantID,
		r.Variant.Chrom + ":" + strconv.FormatInt(r.Variant.Pos, 10),
		gene,
		sample,
		consequence,
		orDash(r.Tissue),
		yesNo(r.Context.IsGeneProximal()),
		distance,
		strconv.FormatFloat(r.Score.TotalScore, 'f', 1, 64),
		string(r.Score.Class),
		string(r.Score.Confidence),
		yesNo(r.Detection.IsDetected),
		string(r.Detection.Confidence),
		orDash(strings.Join(r.Detection.PositiveMarks, ",")),
		strconv.FormatFloat(r.Detection.TotalEvidenceScore, 'f', 3, 64),
		yesNo(r.Promoter.IsDetected),
		r.Detection.Interpretation,
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}
