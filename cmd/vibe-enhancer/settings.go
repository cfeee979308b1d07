package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vibe-enhancer/internal/detect"
	"github.com/inodb/vibe-enhancer/internal/enhancer"
)

// Configuration keys.
const (
	keyScoring            = "scoring"
	keyDetectionAlgorithm = "detection.algorithm"
	keyDetectionMinMarks  = "detection.min_marks"
	keyScreenWorkers      = "screen.workers"
	keyScreenTissue       = "screen.tissue"
	keyOutputDB           = "output.db"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

func init() {
	viper.SetDefault(keyDetectionAlgorithm, string(detect.Balanced))
	viper.SetDefault(keyDetectionMinMarks, 0)
	viper.SetDefault(keyScreenWorkers, 0)
	viper.SetDefault(keyScreenTissue, "")
	viper.SetDefault(keyOutputDB, "")
}

// bindFlags binds command flags to config keys. Binding happens when the
// command runs so that commands sharing a key do not steal each other's
// flags.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, flag := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("bind flag --%s: %w", flag, err)
		}
	}
	return nil
}

// loadCriteria starts from the default criteria and applies any overrides
// in the scoring config section.
func loadCriteria() (enhancer.Criteria, error) {
	c := enhancer.DefaultCriteria()
	if viper.IsSet(keyScoring) {
		if err := viper.UnmarshalKey(keyScoring, &c); err != nil {
			return c, fmt.Errorf("read scoring config: %w", err)
		}
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func loadScorer() (*enhancer.Scorer, error) {
	c, err := loadCriteria()
	if err != nil {
		return nil, err
	}
	return enhancer.NewScorer(c)
}

// loadDetector builds the detector from detection.algorithm and
// detection.min_marks. A min_marks of 0 keeps the preset's value.
func loadDetector() (*detect.Detector, error) {
	alg, err := detect.ParseAlgorithm(viper.GetString(keyDetectionAlgorithm))
	if err != nil {
		return nil, usageError{err}
	}
	var opts []detect.Option
	if n := viper.GetInt(keyDetectionMinMarks); n != 0 {
		opts = append(opts, detect.WithMinMarks(n))
	}
	d, err := detect.NewDetector(alg, opts...)
	if err != nil {
		return nil, usageError{err}
	}
	return d, nil
}
