package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/accakut/facspair/internal/config"
	"github.com/accakut/facspair/internal/testrecords"
)

const defaultRunTimeout = 10 * time.Minute

func main() {
	var (
		configFile = flag.String("config", "", "YAML configuration with layouts (default: $FACSPAIR_CONFIG)")
		outputFile = flag.String("output", "", "Output CSV file (default: generated_records_TIMESTAMP.csv)")
		noise      = flag.Int("noise", 0, "Records on days no layout is active")
		duplicates = flag.Int("duplicates", 0, "Rows repeating an existing GUID")
		workers    = flag.Int("workers", runtime.NumCPU(), "Number of concurrent workers")
		verify     = flag.Bool("verify", false, "Pair the generated export and check the result")
		logFile    = flag.String("log", "", "Log file, in addition to stderr")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		testrecords.ShowHelp()
		return
	}

	closeLog, err := testrecords.SetupLogging(*logFile)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = closeLog() }()

	if *configFile != "" {
		if err := os.Setenv("FACSPAIR_CONFIG", *configFile); err != nil {
			os.Stderr.WriteString("Failed to set config path: " + err.Error() + "\n")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	if err := run(ctx, &testrecords.Config{
		Noise:      *noise,
		Duplicates: *duplicates,
		Workers:    *workers,
		OutputFile: *outputFile,
		LogFile:    *logFile,
		Verify:     *verify,
	}); err != nil {
		os.Stderr.WriteString("Generation failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}

// run fills the layouts and pairing window from configuration.
func run(ctx context.Context, rc *testrecords.Config) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	p, err := cfg.Plate()
	if err != nil {
		return err
	}
	if rc.Layouts, err = cfg.BuildLayouts(p); err != nil {
		return err
	}
	rc.MinDelay, rc.MaxDelay = cfg.PairingMinDelay, cfg.PairingMaxDelay
	return testrecords.Run(ctx, rc)
}
