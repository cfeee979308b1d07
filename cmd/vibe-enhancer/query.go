package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vibe-enhancer/internal/duckdb"
	"github.com/inodb/vibe-enhancer/internal/enhancer"
	"github.com/inodb/vibe-enhancer/internal/variant"
)

type queryOptions struct {
	gene     string
	variant  string
	class    string
	minScore float64
	minConf  string
	counts   bool
	runs     bool
	runID    string
}

func newQueryCmd() *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query screening results stored in DuckDB",
		Long: `Query results stored by 'screen --db'. Exactly one of --gene, --variant,
--class, --counts or --runs selects the query.`,
		Example: `  vibe-enhancer query --db results.duckdb --gene MYC
  vibe-enhancer query --db results.duckdb --variant 8_128413305_G/T
  vibe-enhancer query --db results.duckdb --class active --min-score 8
  vibe-enhancer query --db results.duckdb --gene MYC --min-confidence moderate
  vibe-enhancer query --db results.duckdb --counts --run <run-id>
  vibe-enhancer query --db results.duckdb --runs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(cmd, map[string]string{keyOutputDB: "db"}); err != nil {
				return err
			}
			return runQuery(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().String("db", "", "DuckDB file written by screen --db")
	cmd.Flags().StringVar(&opts.gene, "gene", "", "Hugo gene symbol")
	cmd.Flags().StringVar(&opts.variant, "variant", "", "variant id (chrom_pos_ref/alt)")
	cmd.Flags().StringVar(&opts.class, "class", "", "enhancer class: active, primed, poised, none, not_applicable")
	cmd.Flags().Float64Var(&opts.minScore, "min-score", 0, "minimum score for --class")
	cmd.Flags().StringVar(&opts.minConf, "min-confidence", "", "minimum score confidence for result rows: low, moderate, high")
	cmd.Flags().BoolVar(&opts.counts, "counts", false, "count results per enhancer class")
	cmd.Flags().BoolVar(&opts.runs, "runs", false, "list screening runs")
	cmd.Flags().StringVar(&opts.runID, "run", "", "restrict --counts to one run id")

	return cmd
}

func runQuery(w io.Writer, opts queryOptions) error {
	selected := 0
	for _, set := range []bool{opts.gene != "", opts.variant != "", opts.class != "", opts.counts, opts.runs} {
		if set {
			selected++
		}
	}
	if selected != 1 {
		return usageError{errors.New("choose exactly one of --gene, --variant, --class, --counts, --runs")}
	}

	var minRank int
	if opts.minConf != "" {
		minRank = enhancer.ConfidenceRank(enhancer.Confidence(strings.ToLower(opts.minConf)))
		if minRank == 0 {
			return usageError{fmt.Errorf("unknown confidence %q (want low, moderate or high)", opts.minConf)}
		}
	}

	dbPath := viper.GetString(keyOutputDB)
	if dbPath == "" {
		return usageError{errors.New("--db (or output.db in config) is required")}
	}
	store, err := duckdb.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	bw := bufio.NewWriter(w)
	defer bw.Flush()

	switch {
	case opts.runs:
		runs, err := store.ListRuns()
		if err != nil {
			return err
		}
		fmt.Fprintln(bw, "#Run_ID\tStarted\tAlgorithm\tTissue\tMAF\tSignals")
		for _, r := range runs {
			fmt.Fprintf(bw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.StartedAt.Format("2006-01-02T15:04:05Z"), r.Algorithm,
				orDash(r.Tissue), r.MAF.Path, r.Signals.Path)
		}
		return nil

	case opts.counts:
		counts, err := store.CountByClass(opts.runID)
		if err != nil {
			return err
		}
		classes := make([]string, 0, len(counts))
		for c := range counts {
			classes = append(classes, string(c))
		}
		sort.Strings(classes)
		fmt.Fprintln(bw, "#Class\tCount")
		for _, c := range classes {
			fmt.Fprintf(bw, "%s\t%d\n", c, counts[enhancer.Class(c)])
		}
		return nil
	}

	var rows []duckdb.ResultRow
	switch {
	case opts.gene != "":
		rows, err = store.SearchByGene(opts.gene)
	case opts.variant != "":
		rows, err = store.LookupVariant(variant.NormalizeID(opts.variant))
	default:
		rows, err = store.SearchByClass(enhancer.Class(strings.ToLower(opts.class)), opts.minScore)
	}
	if err != nil {
		return err
	}
	writeRows(bw, filterByConfidence(rows, minRank))
	return nil
}

// filterByConfidence keeps rows whose score confidence ranks at least
// minRank. Gene-proximal rows rank 0 and drop out of any filter.
func filterByConfidence(rows []duckdb.ResultRow, minRank int) []duckdb.ResultRow {
	if minRank == 0 {
		return rows
	}
	kept := rows[:0]
	for _, r := range rows {
		if enhancer.ConfidenceRank(r.Confidence) >= minRank {
			kept = append(kept, r)
		}
	}
	return kept
}

func writeRows(w io.Writer, rows []duckdb.ResultRow) {
	fmt.Fprintln(w, "#Variant\tGene\tSample\tTissue\tScore\tClass\tConfidence\tDetected\tPositive_Marks\tRun_ID")
	for _, r := range rows {
		detected := "NO"
		if r.Detected {
			detected = "YES"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.VariantID, orDash(r.Gene), orDash(r.SampleID), orDash(r.Tissue),
			strconv.FormatFloat(r.TotalScore, 'f', 1, 64), r.Class, r.Confidence,
			detected, orDash(strings.Join(r.PositiveMarks, ",")), r.RunID)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
