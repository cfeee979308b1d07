package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-enhancer/internal/detect"
	"github.com/inodb/vibe-enhancer/internal/duckdb"
	"github.com/inodb/vibe-enhancer/internal/enhancer"
	"github.com/inodb/vibe-enhancer/internal/maf"
	"github.com/inodb/vibe-enhancer/internal/output"
	"github.com/inodb/vibe-enhancer/internal/screen"
	"github.com/inodb/vibe-enhancer/internal/signal"
	"github.com/inodb/vibe-enhancer/internal/vcf"
)

func newScreenCmd() *cobra.Command {
	var outputFile, inputFormat string

	cmd := &cobra.Command{
		Use:   "screen <mutations> <signals.jsonl>",
		Short: "Screen a MAF or VCF file against AlphaGenome signal records",
		Long: `Score every mutation in a cBioPortal MAF (data_mutations.txt) or a VCF,
optionally gzipped, that has a matching record in a JSON Lines file of AlphaGenome
signal records. Results are written as a tab-delimited table in MAF order
and, with --db, stored in DuckDB for later queries.

Mutations without a signal record are skipped and counted.`,
		Example: `  vibe-enhancer screen data_mutations.txt signals.jsonl
  vibe-enhancer screen --tissue UBERON:0001264 -o results.tsv data_mutations.txt.gz signals.jsonl.gz
  vibe-enhancer screen --db results.duckdb --workers 8 data_mutations.txt signals.jsonl
  vibe-enhancer screen somatic.vcf.gz signals.jsonl`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(cmd, map[string]string{
				keyDetectionAlgorithm: "algorithm",
				keyDetectionMinMarks:  "min-marks",
				keyScreenTissue:       "tissue",
				keyScreenWorkers:      "workers",
				keyOutputDB:           "db",
			}); err != nil {
				return err
			}
			return runScreen(args[0], args[1], outputFile, inputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&inputFormat, "input-format", "", "input format: maf, vcf (auto-detected if not specified)")
	cmd.Flags().StringP("algorithm", "a", "balanced", "detection preset: conservative, balanced, sensitive")
	cmd.Flags().Int("min-marks", 0, "override the number of positive marks required (0 = preset default)")
	cmd.Flags().StringP("tissue", "t", "", "UBERON tissue id for records that name none")
	cmd.Flags().IntP("workers", "w", 0, "number of worker goroutines (0 = all CPUs)")
	cmd.Flags().String("db", "", "DuckDB file to store results in")

	return cmd
}

func runScreen(mutationPath, signalPath, outputFile, inputFormat string) error {
	scorer, err := loadScorer()
	if err != nil {
		return err
	}
	detector, err := loadDetector()
	if err != nil {
		return err
	}
	tissue := viper.GetString(keyScreenTissue)
	if adj, ok := detect.LookupTissue(tissue); ok {
		logger.Info("scaling detection thresholds", zap.String("tissue", tissue),
			zap.String("name", adj.Name), zap.Float64("factor", adj.Factor))
	} else if tissue != "" {
		logger.Warn("no threshold adjustment for tissue, using preset thresholds", zap.String("tissue", tissue))
	}

	idx, err := signal.LoadIndex(signalPath)
	if err != nil {
		return fmt.Errorf("load signal records: %w", err)
	}
	logger.Info("loaded signal records", zap.Int("records", len(idx)), zap.String("path", signalPath))

	if inputFormat == "" {
		inputFormat = detectInputFormat(mutationPath)
	}
	src, err := openMutations(mutationPath, inputFormat)
	if err != nil {
		return err
	}
	defer src.Close()
	logger.Debug("reading mutations", zap.String("path", mutationPath), zap.String("format", inputFormat))

	out := os.Stdout
	if outputFile != "" {
		out, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer out.Close()
	}

	writers := []screen.ResultWriter{output.NewTabWriter(out)}

	var runID string
	if dbPath := viper.GetString(keyOutputDB); dbPath != "" {
		store, err := duckdb.Open(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		mafFP, err := duckdb.StatFile(mutationPath)
		if err != nil {
			return fmt.Errorf("stat mutation file: %w", err)
		}
		sigFP, err := duckdb.StatFile(signalPath)
		if err != nil {
			return fmt.Errorf("stat signal file: %w", err)
		}
		run := duckdb.NewRun(string(detector.Algorithm()), tissue, mafFP, sigFP, scorer.Criteria())
		if err := store.CreateRun(run); err != nil {
			return err
		}
		runID = run.ID
		writers = append(writers, duckdb.NewResultWriter(store, runID))
		logger.Info("storing results", zap.String("db", dbPath), zap.String("run_id", runID))
	}

	s := screen.New(scorer, detector)
	s.SetLogger(logger)
	s.SetTissue(tissue)
	s.SetWorkers(viper.GetInt(keyScreenWorkers))

	stats, err := s.ScreenAll(src, idx, writers...)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Screened %d of %d mutations (%d without signal records), %d detected\n",
		stats.Screened, stats.Mutations, stats.NoSignal, stats.Detected)
	classes := make([]string, 0, len(stats.ByClass))
	for c := range stats.ByClass {
		classes = append(classes, string(c))
	}
	sort.Strings(classes)
	for _, c := range classes {
		fmt.Fprintf(os.Stderr, "  %-15s %d\n", c, stats.ByClass[enhancer.Class(c)])
	}
	if runID != "" {
		fmt.Fprintf(os.Stderr, "Run ID: %s\n", runID)
	}
	return nil
}

type mutationReader interface {
	screen.MutationSource
	io.Closer
}

func openMutations(path, format string) (mutationReader, error) {
	switch format {
	case "maf":
		p, err := maf.NewParser(path)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "vcf":
		p, err := vcf.NewParser(path)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, usageError{fmt.Errorf("unknown input format %q (use --input-format maf or vcf)", format)}
	}
}

// detectInputFormat detects the mutation file format from its name, then
// from its first bytes. Stdin and unrecognized files are read as MAF.
func detectInputFormat(path string) string {
	lowerPath := strings.TrimSuffix(strings.ToLower(path), ".gz")

	switch {
	case strings.HasSuffix(lowerPath, ".vcf"):
		return "vcf"
	case strings.HasSuffix(lowerPath, ".maf"):
		return "maf"
	}
	switch filepath.Base(lowerPath) {
	case "data_mutations.txt", "data_mutations_extended.txt":
		return "maf"
	}
	if path == "-" {
		return "maf"
	}

	file, err := os.Open(path)
	if err != nil {
		return "maf"
	}
	defer file.Close()

	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	content := string(buf[:n])
	if strings.HasPrefix(content, "##fileformat=VCF") || strings.HasPrefix(content, "#CHROM") {
		return "vcf"
	}
	return "maf"
}
