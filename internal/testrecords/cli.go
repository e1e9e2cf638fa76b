package testrecords

import (
	"fmt"
	"io"
	"os"

	"github.com/accakut/facspair/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging sends log output to stderr and, when logFile is set, to that
// file as well. The returned func closes the file.
func SetupLogging(logFile string) (func() error, error) {
	if logFile == "" {
		if err := logger.InitWithWriter(os.Stderr); err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		return func() error { return nil }, nil
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	if err := logger.InitWithWriter(io.MultiWriter(os.Stderr, file)); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return file.Close, nil
}

// ShowHelp prints usage information for the record generator.
func ShowHelp() {
	os.Stdout.WriteString(`facspair record generator
=========================

Writes a synthetic cytometer export for the layouts of a facspair
configuration: one initial and one second measurement per before well and
layout date, with the second reading inside the pairing window.

Usage:
  go run ./cmd/gen-records [options]

Options:
  -config string
        YAML configuration with layouts (default: $FACSPAIR_CONFIG)
  -output string
        Output CSV file (default: generated_records_TIMESTAMP.csv)
  -noise int
        Records on days no layout is active (default 0)
  -duplicates int
        Rows repeating an existing GUID (default 0)
  -workers int
        Number of concurrent workers (default CPU cores)
  -verify
        Pair the generated export and check the result
  -log string
        Log file, in addition to stderr
  -help
        Show this help message

The pairing window is taken from pairing_min_delay and pairing_max_delay.

Examples:
  # Generate an export for the configured layouts
  FACSPAIR_CONFIG=facspair.yaml go run ./cmd/gen-records -output run.csv

  # Generate with noise and duplicates, then check the pipeline on it
  go run ./cmd/gen-records -config facspair.yaml -noise 50 -duplicates 10 -verify
`)
}
