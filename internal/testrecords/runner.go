package testrecords

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/accakut/facspair/internal/adapters/csvsource"
	"github.com/accakut/facspair/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run generates an export, writes it to the output file and, when asked,
// verifies that the pipeline pairs it back.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting record generation",
		logger.Int("layouts", len(config.Layouts)),
		logger.Duration("minDelay", config.MinDelay),
		logger.Duration("maxDelay", config.MaxDelay),
		logger.Int("workers", config.Workers),
		logger.String("logFile", config.LogFile),
		logger.Bool("verify", config.Verify))

	batch, err := Generate(ctx, config, stats)
	if err != nil {
		return err
	}

	filename, err := saveRecordsToFile(ctx, config, batch)
	if err != nil {
		return fmt.Errorf("saving records failed: %w", err)
	}

	if config.Verify {
		if err := Verify(ctx, config, batch, stats); err != nil {
			return err
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats, filename)
	return nil
}

// saveRecordsToFile writes the batch as CSV and returns the file name used.
func saveRecordsToFile(ctx context.Context, config *Config, batch *Batch) (string, error) {
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_records_" + timestamp + ".csv"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if err := csvsource.Write(file, batch.Records); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("failed to write records: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	logger.Get().Info(ctx, "records saved to file", logger.String("filename", filename), logger.Int("records", len(batch.Records)))
	return filename, nil
}

func displayFinalStats(stats *Stats, filename string) {
	var recordsPerSecond float64
	if stats.Duration > 0 {
		recordsPerSecond = float64(stats.Total()) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.String("filename", filename),
		logger.Int("beforeRecords", stats.BeforeRecords),
		logger.Int("afterRecords", stats.AfterRecords),
		logger.Int("noiseRecords", stats.NoiseRecords),
		logger.Int("duplicateRecords", stats.DuplicateRecords),
		logger.Int("paired", stats.Paired),
		logger.Int("mismatched", stats.Mismatched),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("recordsPerSecond", recordsPerSecond))
}
