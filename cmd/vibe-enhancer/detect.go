package main

import (
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/inodb/vibe-enhancer/internal/detect"
	"github.com/inodb/vibe-enhancer/internal/signal"
)

func newDetectCmd() *cobra.Command {
	var (
		promoter bool
		format   string
	)

	cmd := &cobra.Command{
		Use:   "detect <summary.json>",
		Short: "Run threshold-based enhancer detection on one AlphaGenome summary",
		Long: `Detect enhancer-like (or, with --promoter, promoter-like) activity in an
AlphaGenome variant-effect summary given as a JSON object. Use '-' for stdin.

Thresholds come from the selected preset and are scaled for the tissue
when --tissue names a known UBERON id.`,
		Example: `  vibe-enhancer detect summary.json
  vibe-enhancer detect --algorithm conservative --tissue UBERON:0001264 summary.json
  cat summary.json | vibe-enhancer detect --promoter -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(cmd, map[string]string{
				keyDetectionAlgorithm: "algorithm",
				keyDetectionMinMarks:  "min-marks",
				keyScreenTissue:       "tissue",
			}); err != nil {
				return err
			}
			summary, err := readSummary(args[0])
			if err != nil {
				return err
			}
			return runDetect(cmd.OutOrStdout(), summary, promoter, format)
		},
	}

	cmd.Flags().StringP("algorithm", "a", "balanced", "detection preset: conservative, balanced, sensitive")
	cmd.Flags().Int("min-marks", 0, "override the number of positive marks required (0 = preset default)")
	cmd.Flags().StringP("tissue", "t", "", "UBERON tissue id for threshold scaling")
	cmd.Flags().BoolVar(&promoter, "promoter", false, "detect promoter-like activity instead")
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml, json")

	return cmd
}

// readSummary reads a single AlphaGenome summary object from a file or stdin.
func readSummary(path string) (signal.Summary, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return signal.Summary{}, fmt.Errorf("read summary: %w", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return signal.Summary{}, fmt.Errorf("decode summary %s: %w", path, err)
	}
	// Accept a full signal record as well as a bare summary.
	if inner, ok := m["summary"].(map[string]any); ok {
		m = inner
	}
	return signal.FromMap(m), nil
}

func runDetect(w io.Writer, s signal.Summary, promoter bool, format string) error {
	var result detect.Result
	if promoter {
		alg, err := detect.ParseAlgorithm(viper.GetString(keyDetectionAlgorithm))
		if err != nil {
			return usageError{err}
		}
		result = detect.NewPromoterDetector(alg).Detect(s)
	} else {
		d, err := loadDetector()
		if err != nil {
			return err
		}
		result = d.Detect(s, viper.GetString(keyScreenTissue))
	}

	if s.IsEmpty() {
		logger.Warn("summary carries no recognized signal")
	}
	logger.Debug("detection finished",
		zap.Bool("detected", result.IsDetected),
		zap.Strings("positive_marks", result.PositiveMarks))

	switch format {
	case "yaml":
		return yaml.NewEncoder(w).Encode(result)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	default:
		return usageError{fmt.Errorf("unknown output format %q", format)}
	}
}
