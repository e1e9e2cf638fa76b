package testrecords

import (
	"context"
	"fmt"

	app "github.com/accakut/facspair/internal/app"
	"github.com/accakut/facspair/pkg/logger"
)

// Verify runs the pipeline on the batch and checks that every generated
// before record is paired with its generated after record and that every
// duplicate row is dropped.
func Verify(ctx context.Context, config *Config, batch *Batch, stats *Stats) error {
	logger.Get().Info(ctx, "verifying generated records", logger.Int("records", len(batch.Records)))

	svc := app.New(
		app.WithWorkerCount(config.Workers),
		app.WithPairingWindow(config.MinDelay, config.MaxDelay),
	)
	sum, err := svc.Process(ctx, batch.Records, config.Layouts...)
	if err != nil {
		return fmt.Errorf("processing generated records: %w", err)
	}

	seen := 0
	for i := range sum.Records {
		r := &sum.Records[i]
		want, ok := batch.Expected[r.RecordID]
		if !ok {
			continue
		}
		seen++
		if r.Pairing != nil && r.Pairing.RecordID == want {
			stats.Paired++
			continue
		}
		stats.Mismatched++
		got := ""
		if r.Pairing != nil {
			got = r.Pairing.RecordID
		}
		logger.Get().Debug(ctx, "unexpected pairing",
			logger.String("record_id", r.RecordID),
			logger.String("well", r.Well),
			logger.String("want", want),
			logger.String("got", got))
	}
	stats.Mismatched += len(batch.Expected) - seen

	if stats.Mismatched > 0 {
		return fmt.Errorf("%w: %d of %d before records", ErrVerification, stats.Mismatched, len(batch.Expected))
	}
	if sum.Duplicates != stats.DuplicateRecords {
		return fmt.Errorf("%w: dropped %d duplicates, generated %d", ErrVerification, sum.Duplicates, stats.DuplicateRecords)
	}

	logger.Get().Info(ctx, "verification passed",
		logger.String("run_id", sum.RunID),
		logger.Int("paired", stats.Paired),
		logger.Int("duplicates", sum.Duplicates))
	return nil
}
