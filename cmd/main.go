package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/accakut/facspair/internal/adapters/csvsource"
	app "github.com/accakut/facspair/internal/app"
	"github.com/accakut/facspair/internal/config"
	"github.com/accakut/facspair/pkg/logger"
	"github.com/accakut/facspair/pkg/metrics"
)

var errNoInput = errors.New("no input files: pass paths as arguments or set input_paths")

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use fmt for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		logger.Get().Error(ctx, "run failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

// run loads configuration, reads the exports named by args (or input_paths)
// and pairs them against every configured layout.
func run(ctx context.Context, args []string) (err error) {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Get()
	if err := logger.SetFormat(cfg.LogFormat); err != nil {
		log.Warn(ctx, "invalid log_format; falling back to text", logger.String("log_format", cfg.LogFormat), logger.Error(err))
		_ = logger.SetFormat("text")
	}
	log = logger.Get()
	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if cfg.MetricsTextfile != "" {
		defer func() {
			if werr := metrics.WriteTextfile(cfg.MetricsTextfile); werr != nil {
				log.Error(ctx, "writing metrics textfile failed", logger.String("path", cfg.MetricsTextfile), logger.Error(werr))
				err = errors.Join(err, werr)
			}
		}()
	}

	p, err := cfg.Plate()
	if err != nil {
		return err
	}
	layouts, err := cfg.BuildLayouts(p)
	if err != nil {
		return err
	}
	if len(layouts) == 0 {
		log.Warn(ctx, "no layouts configured; records will only be deduplicated")
	}
	for _, l := range layouts {
		log.Debug(ctx, "layout ready",
			logger.String("layout", l.Name()),
			logger.Int("before_wells", l.Len()),
			logger.Int("row_offset", l.Offset()),
			logger.String("reference_well", l.ReferenceWell().String()),
			logger.Int("dates", len(l.Dates())),
		)
	}

	exp, err := cfg.ExperimentModel()
	if err != nil {
		return err
	}
	if exp.Samples() > 0 {
		log.Info(ctx, "experiment",
			logger.Int("samples", exp.Samples()),
			logger.Int("dates", len(exp.Dates)),
			logger.Float64("min_gfp_before", exp.MinGFPThresholdBefore),
			logger.Float64("max_gfp_before", exp.MaxGFPThresholdBefore),
			logger.Float64("min_gfp_after", exp.MinGFPThresholdAfter),
			logger.Float64("max_gfp_after", exp.MaxGFPThresholdAfter),
		)
	}

	paths := args
	if len(paths) == 0 {
		paths = cfg.InputPaths
	}
	if len(paths) == 0 {
		return errNoInput
	}

	reader := csvsource.NewReader(csvsource.WithTimestampLayouts(cfg.TimestampLayouts...))
	start := time.Now()
	records, err := reader.ReadFiles(ctx, paths...)
	metrics.ObserveStageDuration(metrics.StageRead, time.Since(start))
	if err != nil {
		metrics.RecordErrorByComponent("csvsource", "read")
		return fmt.Errorf("reading input: %w", err)
	}
	log.Info(ctx, "input read", logger.Int("files", len(paths)), logger.Int("records", len(records)))

	svc := app.New(
		app.WithLogger(log.Named("service")),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithPairingWindow(cfg.PairingMinDelay, cfg.PairingMaxDelay),
	)
	sum, err := svc.Process(ctx, records, layouts...)
	if err != nil {
		return err
	}

	for _, r := range sum.Unpaired() {
		log.Debug(ctx, "unpaired initial measurement",
			logger.String("record_id", r.RecordID),
			logger.String("well", r.Well),
			logger.String("group", r.SampleGroup),
			logger.Int("index", r.SampleIndex),
			logger.Time("timestamp", r.Timestamp),
		)
	}
	log.Info(ctx, "summary",
		logger.String("run_id", sum.RunID),
		logger.Int("records", len(sum.Records)),
		logger.Int("duplicates", sum.Duplicates),
		logger.Int("paired", sum.Paired()),
		logger.Int("unpaired", len(sum.Unpaired())),
		logger.Duration("took", sum.Duration),
	)
	return nil
}
