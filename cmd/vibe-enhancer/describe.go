package main

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/inodb/vibe-enhancer/internal/detect"
	"github.com/inodb/vibe-enhancer/internal/enhancer"
)

// provenance is the document printed by describe.
type provenance struct {
	Scorer    enhancer.Description `yaml:"scorer"`
	Detection detectionProvenance  `yaml:"detection"`
}

type detectionProvenance struct {
	Algorithm   detect.Algorithm         `yaml:"algorithm"`
	Description string                   `yaml:"description"`
	Tissue      string                   `yaml:"tissue,omitempty"`
	Adjustment  *detect.TissueAdjustment `yaml:"tissue_adjustment,omitempty"`
	Criteria    string                   `yaml:"criteria_name"`
	Thresholds  map[string]float64       `yaml:"thresholds"`
	Presets     []presetSummary          `yaml:"presets"`
}

type presetSummary struct {
	Name        detect.Algorithm `yaml:"name"`
	Description string           `yaml:"description"`
}

func newDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the scoring and detection criteria in effect",
		Long: `Print the weights, thresholds, confidence rules and pre-filters of the
weighted scorer, plus the detection thresholds for the selected preset and
tissue, as YAML. Config overrides are applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(cmd, map[string]string{
				keyDetectionAlgorithm: "algorithm",
				keyDetectionMinMarks:  "min-marks",
				keyScreenTissue:       "tissue",
			}); err != nil {
				return err
			}
			return runDescribe(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringP("algorithm", "a", "balanced", "detection preset: conservative, balanced, sensitive")
	cmd.Flags().Int("min-marks", 0, "override the number of positive marks required (0 = preset default)")
	cmd.Flags().StringP("tissue", "t", "", "UBERON tissue id for threshold scaling")

	return cmd
}

func runDescribe(w io.Writer) error {
	crit, err := loadCriteria()
	if err != nil {
		return err
	}
	d, err := loadDetector()
	if err != nil {
		return err
	}
	tissue := viper.GetString(keyScreenTissue)

	presets := make([]presetSummary, 0, len(detect.Algorithms))
	for _, a := range detect.Algorithms {
		presets = append(presets, presetSummary{Name: a, Description: a.Description()})
	}

	doc := provenance{
		Scorer: enhancer.Describe(crit),
		Detection: detectionProvenance{
			Algorithm:   d.Algorithm(),
			Description: d.Algorithm().Description(),
			Tissue:      tissue,
			Criteria:    d.Thresholds(tissue).Name,
			Thresholds:  d.Criteria(tissue),
			Presets:     presets,
		},
	}
	if adj, ok := detect.LookupTissue(tissue); ok {
		doc.Detection.Adjustment = &adj
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
