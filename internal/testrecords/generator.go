package testrecords

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/accakut/facspair/internal/adapters/worker"
	"github.com/accakut/facspair/internal/domain/layout"
	"github.com/accakut/facspair/internal/domain/model"
	"github.com/accakut/facspair/internal/domain/plate"
	"github.com/accakut/facspair/pkg/logger"
)

// Timing of generated readings within a day.
const (
	firstReading   = 6 * time.Hour
	readingSpacing = 20 * time.Second
	noiseSpread    = 12 * time.Hour
)

// Event count ranges.
const (
	beforeEventsMin   = 500
	beforeEventsRange = 4500
	afterEventsMin    = 100
	afterEventsRange  = 4900
)

// Batch is a generated export together with the pairing it should produce.
type Batch struct {
	Records  []model.Record
	Expected map[string]string // before GUID -> after GUID
}

// slot is one before/after reading pair to generate.
type slot struct {
	before string
	after  string
	at     time.Time
}

// randomInt returns a value in [0, n) using crypto/rand.
func randomInt(n int64) int64 {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		return 0
	}
	return v.Int64()
}

// Generate builds one before and one after record for every before well of
// every layout on every layout date, followed by noise and duplicate rows.
func Generate(ctx context.Context, config *Config, stats *Stats) (*Batch, error) {
	if len(config.Layouts) == 0 {
		return nil, ErrNoLayouts
	}
	minDelay, maxDelay := config.MinDelay, config.MaxDelay
	if minDelay < 0 || maxDelay < minDelay {
		return nil, fmt.Errorf("%w: [%s, %s]", ErrInvalidWindow, minDelay, maxDelay)
	}

	slots := planSlots(config.Layouts)
	logger.Get().Info(ctx, "generating records",
		logger.Int("layouts", len(config.Layouts)),
		logger.Int("pairs", len(slots)),
		logger.Int("noise", config.Noise),
		logger.Int("duplicates", config.Duplicates))

	records := make([]model.Record, 2*len(slots), 2*len(slots)+config.Noise+config.Duplicates)
	pool := worker.NewPool(config.Workers, worker.WithName("testrecords"))
	err := pool.Range(ctx, len(slots), func(ctx context.Context, lo, hi int) error {
		for i := lo; i < hi; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, a, err := slots[i].generate(minDelay, maxDelay)
			if err != nil {
				return err
			}
			records[2*i], records[2*i+1] = b, a
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record generation failed: %w", err)
	}

	batch := &Batch{Expected: make(map[string]string, len(slots))}
	for i := range slots {
		batch.Expected[records[2*i].RecordID] = records[2*i+1].RecordID
	}
	stats.BeforeRecords = len(slots)
	stats.AfterRecords = len(slots)

	if config.Noise > 0 {
		records = append(records, noise(config.Layouts, config.Noise)...)
		stats.NoiseRecords = config.Noise
	}
	if config.Duplicates > 0 && len(slots) > 0 {
		n := int64(2 * len(slots))
		for i := 0; i < config.Duplicates; i++ {
			records = append(records, records[randomInt(n)])
		}
		stats.DuplicateRecords = config.Duplicates
	}

	batch.Records = records
	logger.Get().Info(ctx, "generated records successfully", logger.Int("count", len(records)))
	return batch, nil
}

// planSlots lists the pairs in layout, date and plate order. Readings of one
// layout day start at 06:00 UTC and are spaced a few seconds apart.
func planSlots(layouts []*layout.Layout) []slot {
	var slots []slot
	for _, l := range layouts {
		pairs := l.Pairings()
		wells := make([]string, 0, len(pairs))
		for w := range pairs {
			wells = append(wells, w)
		}
		sort.Slice(wells, func(i, j int) bool {
			return plate.Compare(plate.MustParseWell(wells[i]), plate.MustParseWell(wells[j])) < 0
		})

		for _, d := range l.Dates().Sorted() {
			day := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
			for j, w := range wells {
				slots = append(slots, slot{
					before: w,
					after:  pairs[w],
					at:     day.Add(firstReading + time.Duration(j)*readingSpacing),
				})
			}
		}
	}
	return slots
}

// generate draws the after reading uniformly inside the window, capped so
// that it stays on the day of the before reading.
func (s slot) generate(minDelay, maxDelay time.Duration) (model.Record, model.Record, error) {
	endOfDay := time.Date(s.at.Year(), s.at.Month(), s.at.Day()+1, 0, 0, 0, 0, time.UTC).Add(-time.Second)
	hi := maxDelay
	if limit := endOfDay.Sub(s.at); hi > limit {
		hi = limit
	}
	if hi < minDelay {
		return model.Record{}, model.Record{}, fmt.Errorf("%w: before reading %s at %s", ErrWindowTooWide, s.before, s.at.Format(time.RFC3339))
	}
	delay := minDelay + time.Duration(randomInt(int64((hi-minDelay)/time.Second)+1))*time.Second

	before := model.Record{
		Well:       s.before,
		Timestamp:  s.at,
		RecordID:   uuid.NewString(),
		EventCount: beforeEventsMin + randomInt(beforeEventsRange),
	}
	after := model.Record{
		Well:       s.after,
		Timestamp:  s.at.Add(delay),
		RecordID:   uuid.NewString(),
		EventCount: afterEventsMin + randomInt(afterEventsRange),
	}
	return before, after, nil
}

// noise places n records on random wells the day before the earliest layout
// date, where no layout is active.
func noise(layouts []*layout.Layout, n int) []model.Record {
	var first time.Time
	for _, l := range layouts {
		dates := l.Dates().Sorted()
		if len(dates) == 0 {
			continue
		}
		d := dates[0]
		t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
		if first.IsZero() || t.Before(first) {
			first = t
		}
	}
	day := first.AddDate(0, 0, -1)
	p := layouts[0].Plate()

	out := make([]model.Record, n)
	for i := range out {
		w := plate.Well{
			Row:    int(randomInt(int64(p.Rows))),
			Column: int(randomInt(int64(p.Columns))) + 1,
		}
		out[i] = model.Record{
			Well:       w.String(),
			Timestamp:  day.Add(firstReading + time.Duration(randomInt(int64(noiseSpread/time.Second)))*time.Second),
			RecordID:   uuid.NewString(),
			EventCount: randomInt(beforeEventsMin),
		}
	}
	return out
}
