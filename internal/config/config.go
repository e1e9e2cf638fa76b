// Package config defines the pipeline configuration and how it is loaded.
//
// Conventions:
// - New() returns a Config holding every default.
// - Load layers a YAML file and FACSPAIR_* environment variables on top.
// - Errors are wrapped with this package's sentinels.
package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/accakut/facspair/internal/domain/plate"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// WorkerCount sets the number of annotation and pairing workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the record-id cache; 0 keeps every id.
	DedupeSize int `koanf:"dedupe_size"`

	// PairingMinDelay and PairingMaxDelay bound the delay between the
	// initial and the second measurement, both inclusive.
	PairingMinDelay time.Duration `koanf:"pairing_min_delay"`
	PairingMaxDelay time.Duration `koanf:"pairing_max_delay"`

	// PlateRows and PlateColumns describe the plate geometry.
	PlateRows    int `koanf:"plate_rows"`
	PlateColumns int `koanf:"plate_columns"`

	// InputPaths lists the cytometer CSV exports to read.
	InputPaths []string `koanf:"input_paths"`

	// TimestampLayouts overrides the accepted "Record Date" formats.
	TimestampLayouts []string `koanf:"timestamp_layouts"`

	// MetricsTextfile, when set, receives the run's metrics in text format.
	MetricsTextfile string `koanf:"metrics_textfile"`

	Experiment Experiment `koanf:"experiment"`
	Layouts    []Layout   `koanf:"layouts"`
}

// Experiment mirrors model.Experiment with plain config types.
type Experiment struct {
	Dates             []string `koanf:"dates"`
	NumberOfHybrids   int      `koanf:"number_of_hybrids"`
	NumberOfControls  int      `koanf:"number_of_controls"`
	NumberOfAncestors int      `koanf:"number_of_ancestors"`
	NumberOfReference int      `koanf:"number_of_reference"`
	NumberOfGFP       int      `koanf:"number_of_gfp"`

	MinGFPThresholdBefore float64 `koanf:"min_gfp_threshold_before"`
	MinGFPThresholdAfter  float64 `koanf:"min_gfp_threshold_after"`
	MaxGFPThresholdBefore float64 `koanf:"max_gfp_threshold_before"`
	MaxGFPThresholdAfter  float64 `koanf:"max_gfp_threshold_after"`
}

// Layout describes one plate layout.
type Layout struct {
	Name string `koanf:"name"`

	// Dates on which the layout was used, e.g. "2024-01-10".
	Dates []string `koanf:"dates"`

	// AfterStart is a row offset ("4") or the first after well ("E1").
	AfterStart string `koanf:"after_start"`

	// Wells maps a sample group to its before-well range.
	Wells map[string]WellRange `koanf:"wells"`
}

// WellRange is either start..end or start plus count.
type WellRange struct {
	Start string `koanf:"start"`
	End   string `koanf:"end"`
	Count int    `koanf:"count"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		WorkerCount:     runtime.NumCPU(),
		DedupeSize:      0,
		PairingMinDelay: time.Hour,
		PairingMaxDelay: 8 * time.Hour,
		PlateRows:       plate.DefaultRows,
		PlateColumns:    plate.DefaultColumns,
		Experiment: Experiment{
			MinGFPThresholdBefore: 0,
			MinGFPThresholdAfter:  0,
			MaxGFPThresholdBefore: 1,
			MaxGFPThresholdAfter:  1,
		},
	}
}

// Validate checks value ranges. Layout contents are checked when they are
// built.
func (c *Config) Validate() error {
	if c.PairingMinDelay < 0 {
		return fmt.Errorf("%w: pairing_min_delay must not be negative", ErrInvalidConfig)
	}
	if c.PairingMaxDelay <= 0 || c.PairingMaxDelay < c.PairingMinDelay {
		return fmt.Errorf("%w: pairing_max_delay must be positive and not below pairing_min_delay", ErrInvalidConfig)
	}
	if _, err := plate.New(c.PlateRows, c.PlateColumns); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	e := c.Experiment
	thresholds := []struct {
		name     string
		min, max float64
	}{
		{"before", e.MinGFPThresholdBefore, e.MaxGFPThresholdBefore},
		{"after", e.MinGFPThresholdAfter, e.MaxGFPThresholdAfter},
	}
	for _, t := range thresholds {
		if t.min < 0 || t.max > 1 || t.min > t.max {
			return fmt.Errorf("%w: gfp thresholds %s must satisfy 0 <= min <= max <= 1", ErrInvalidConfig, t.name)
		}
	}

	for i, l := range c.Layouts {
		for group, r := range l.Wells {
			if r.Count > 0 && r.End != "" {
				return fmt.Errorf("%w: layout %d group %q: set either end or count", ErrInvalidConfig, i, group)
			}
		}
	}
	return nil
}
