package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/inodb/vibe-enhancer/internal/enhancer"
)

type scoreOptions struct {
	distance   int64
	exon       bool
	coding     bool
	matched    bool
	replicates int
	format     string
	noColor    bool
}

func newScoreCmd() *cobra.Command {
	var opts scoreOptions

	cmd := &cobra.Command{
		Use:   "score <key=value>...",
		Short: "Score one region from z-score evidence",
		Long: `Score a single region with the weighted enhancer scorer.

Evidence is given as key=value pairs using the z-score keys
h3k27ac_zscore, h3k4me1_zscore, accessibility_zscore (or dnase_zscore,
atac_zscore), h3k4me3_zscore, h3k36me3_zscore, h3k27me3_zscore,
cage_signal, rna_increase, is_likely_erna and has_allele_bias.`,
		Example: `  vibe-enhancer score h3k27ac_zscore=3 h3k4me1_zscore=3 accessibility_zscore=2 is_likely_erna=true
  vibe-enhancer score --distance 800 h3k27ac_zscore=5     # promoter-proximal, not scored
  vibe-enhancer score --replicates 3 -f yaml h3k27ac_zscore=3 dnase_zscore=2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := parseEvidenceArgs(args)
			if err != nil {
				return usageError{err}
			}
			return runScore(cmd.OutOrStdout(), ev, opts)
		},
	}

	cmd.Flags().Int64Var(&opts.distance, "distance", enhancer.UnknownTSSDistance, "signed distance to the nearest TSS in bp (default: unknown)")
	cmd.Flags().BoolVar(&opts.exon, "exon", false, "region overlaps an exon")
	cmd.Flags().BoolVar(&opts.coding, "coding", false, "region overlaps coding sequence")
	cmd.Flags().BoolVar(&opts.matched, "matched", true, "prediction cell type matches the tissue of interest")
	cmd.Flags().IntVar(&opts.replicates, "replicates", 1, "number of supporting replicates")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format: text, yaml, json")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	return cmd
}

// parseEvidenceArgs turns key=value arguments into an evidence map.
func parseEvidenceArgs(args []string) (enhancer.Evidence, error) {
	m := make(map[string]any, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok || k == "" {
			return enhancer.Evidence{}, fmt.Errorf("invalid evidence %q: want key=value", a)
		}
		m[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	return enhancer.EvidenceFromMap(m), nil
}

func runScore(w io.Writer, ev enhancer.Evidence, opts scoreOptions) error {
	if opts.replicates < 1 {
		return usageError{fmt.Errorf("--replicates must be at least 1, got %d", opts.replicates)}
	}

	scorer, err := loadScorer()
	if err != nil {
		return err
	}

	ctx := enhancer.GenomicContext{
		IsExon:        opts.exon,
		IsCoding:      opts.coding,
		DistanceToTSS: opts.distance,
	}
	result := scorer.Score(ev, ctx, opts.matched, opts.replicates)
	logger.Debug("scored region",
		zap.Float64("score", result.TotalScore),
		zap.String("class", string(result.Class)),
		zap.Bool("gene_proximal", ctx.IsGeneProximal()))

	switch opts.format {
	case "yaml":
		return yaml.NewEncoder(w).Encode(result)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "text":
		if opts.noColor {
			color.NoColor = true
		}
		writeBreakdown(w, result, scorer.Criteria().MaxScore)
		return nil
	default:
		return usageError{fmt.Errorf("unknown output format %q", opts.format)}
	}
}

// writeBreakdown prints the score breakdown with positive contributions in
// green and negative ones in red.
func writeBreakdown(w io.Writer, r enhancer.Result, maxScore float64) {
	plus := color.New(color.FgGreen)
	minus := color.New(color.FgRed)
	zero := color.New(color.Faint)
	bold := color.New(color.Bold)

	bold.Fprintf(w, "Total Score: %.1f/%.1f\n", r.TotalScore, maxScore)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Component Breakdown:")
	for _, l := range enhancer.Breakdown(r.Components) {
		line := enhancer.FormatBreakdownLine(l)
		switch {
		case l.Score > 0:
			plus.Fprintln(w, line)
		case l.Score < 0:
			minus.Fprintln(w, line)
		default:
			zero.Fprintln(w, line)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Classification: %s\n", r.Class)
	fmt.Fprintf(w, "Confidence: %s\n", r.Confidence)
}
