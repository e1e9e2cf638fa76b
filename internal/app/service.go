// Package service runs the pairing pipeline: deduplication, annotation and
// pairing of cytometer records against one or more plate layouts.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/accakut/facspair/internal/adapters/worker"
	"github.com/accakut/facspair/internal/domain/annotate"
	"github.com/accakut/facspair/internal/domain/dedupe"
	"github.com/accakut/facspair/internal/domain/layout"
	"github.com/accakut/facspair/internal/domain/model"
	"github.com/accakut/facspair/internal/domain/pairing"
	"github.com/accakut/facspair/pkg/logger"
	"github.com/accakut/facspair/pkg/metrics"
)

// LayoutSummary reports what one layout pass did.
type LayoutSummary struct {
	Name       string
	Annotation annotate.Stats
	Pairing    pairing.Stats
}

// Summary is the result of one Process call.
type Summary struct {
	RunID      string
	Records    []model.Record // deduplicated, annotated and paired
	Ingested   int
	Duplicates int
	Layouts    []LayoutSummary
	Duration   time.Duration
}

// Paired returns the number of records carrying a pairing.
func (s *Summary) Paired() int {
	n := 0
	for i := range s.Records {
		if s.Records[i].IsPaired() {
			n++
		}
	}
	return n
}

// Unpaired returns the initial measurements left without a pairing.
func (s *Summary) Unpaired() []model.Record {
	var out []model.Record
	for i := range s.Records {
		if s.Records[i].IsInitial() && !s.Records[i].IsPaired() {
			out = append(out, s.Records[i])
		}
	}
	return out
}

// Service wires deduplication, the worker pool, the annotator and the pairer.
type Service struct {
	workerCount int
	dedupeSize  int
	minDelay    time.Duration
	maxDelay    time.Duration

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		minDelay:    pairing.DefaultMinDelay,
		maxDelay:    pairing.DefaultMaxDelay,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	return s
}

// Process deduplicates records by RecordID, keeping the first occurrence,
// then annotates and pairs them against each layout in order. The input
// slice is not modified.
//
// An ambiguous pairing aborts the run; the error names the layout and wraps
// the *pairing.AmbiguousPairingError.
func (s *Service) Process(ctx context.Context, records []model.Record, layouts ...*layout.Layout) (Summary, error) {
	start := time.Now()
	sum := Summary{RunID: uuid.NewString(), Ingested: len(records)}
	runID := logger.String("run_id", sum.RunID)

	for i, l := range layouts {
		if l == nil {
			metrics.RecordRun(metrics.RunFailure)
			return sum, fmt.Errorf("layout %d: %w", i+1, ErrNilLayout)
		}
	}

	s.logger.Info(ctx, "run started",
		runID,
		logger.Int("records", len(records)),
		logger.Int("layouts", len(layouts)),
		logger.Int("workers", s.workerCount),
	)
	metrics.RecordIngested(len(records))

	sum.Records, sum.Duplicates = s.dedupe(ctx, records)

	pool := worker.NewPool(s.workerCount,
		worker.WithName("pipeline"),
		worker.WithLogger(s.logger.Named("pool")),
	)
	annotator := annotate.New(annotate.WithRunner(pool))
	pairer := pairing.New(
		pairing.WithWindow(s.minDelay, s.maxDelay),
		pairing.WithRunner(pool),
	)

	for _, l := range layouts {
		ls, err := s.processLayout(ctx, annotator, pairer, sum.Records, l)
		if err != nil {
			metrics.RecordRun(metrics.RunFailure)
			s.logger.Error(ctx, "run failed", runID, logger.String("layout", l.Name()), logger.Error(err))
			return sum, fmt.Errorf("layout %q: %w", l.Name(), err)
		}
		sum.Layouts = append(sum.Layouts, ls)
	}

	sum.Duration = time.Since(start)
	metrics.RecordRun(metrics.RunSuccess)
	s.logger.Info(ctx, "run finished",
		runID,
		logger.Int("records", len(sum.Records)),
		logger.Int("duplicates", sum.Duplicates),
		logger.Int("paired", sum.Paired()),
		logger.Duration("took", sum.Duration),
	)
	return sum, nil
}

func (s *Service) dedupe(ctx context.Context, records []model.Record) ([]model.Record, int) {
	start := time.Now()
	defer func() { metrics.ObserveStageDuration(metrics.StageDedupe, time.Since(start)) }()

	seen := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	out := make([]model.Record, 0, len(records))
	dups := 0
	for i := range records {
		if seen.SeenAndRecord(ctx, records[i].RecordID) {
			dups++
			metrics.RecordDuplicate()
			s.logger.Debug(ctx, "duplicate record dropped",
				logger.String("record_id", records[i].RecordID),
				logger.String("well", records[i].Well),
			)
			continue
		}
		out = append(out, records[i])
	}
	return out, dups
}

func (s *Service) processLayout(ctx context.Context, a *annotate.Annotator, p *pairing.Pairer, records []model.Record, l *layout.Layout) (LayoutSummary, error) {
	ls := LayoutSummary{Name: l.Name()}
	metrics.UpdateLayoutWells(l.Name(), l.Len())

	start := time.Now()
	ast, err := a.Annotate(ctx, records, l)
	metrics.ObserveStageDuration(metrics.StageAnnotate, time.Since(start))
	if err != nil {
		metrics.RecordErrorByComponent("annotate", "canceled")
		return ls, err
	}
	ls.Annotation = ast
	metrics.RecordAnnotated(model.MeasurementInitial.String(), ast.Initial)
	metrics.RecordAnnotated(model.MeasurementSecond.String(), ast.Second)
	metrics.RecordAnnotated(model.MeasurementUnset.String(), ast.Unmatched)

	start = time.Now()
	pst, err := p.Pair(ctx, records, l)
	metrics.ObserveStageDuration(metrics.StagePair, time.Since(start))
	if err != nil {
		var amb *pairing.AmbiguousPairingError
		if errors.As(err, &amb) {
			metrics.RecordAmbiguousPairing()
			metrics.RecordErrorByComponent("pairing", "ambiguous")
			s.logger.Warn(ctx, "ambiguous pairing",
				logger.String("layout", l.Name()),
				logger.String("record_id", amb.RecordID),
				logger.String("well", amb.Well),
				logger.Time("timestamp", amb.Timestamp),
				logger.Int("candidates", len(amb.Candidates)),
			)
		} else {
			metrics.RecordErrorByComponent("pairing", "canceled")
		}
		return ls, err
	}
	ls.Pairing = pst
	for outcome, n := range pst.ByOutcome() {
		metrics.RecordPairingOutcome(outcome, n)
	}

	s.logger.Info(ctx, "layout processed",
		logger.String("layout", l.Name()),
		logger.Int("initial", ast.Initial),
		logger.Int("second", ast.Second),
		logger.Int("unmatched", ast.Unmatched),
		logger.Int("paired", pst.Paired),
		logger.Int("no_match", pst.NoMatch),
		logger.Int("date_mismatch", pst.DateMismatch),
		logger.Int("no_partner", pst.NoPartner),
		logger.Int("skipped", pst.Skipped),
	)
	return ls, nil
}
