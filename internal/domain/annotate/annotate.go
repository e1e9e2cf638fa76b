// Package annotate labels records with the sample group, index and
// measurement kind implied by a plate layout.
package annotate

import (
	"context"
	"sync"

	"github.com/accakut/facspair/internal/domain/layout"
	"github.com/accakut/facspair/internal/domain/model"
)

// Runner splits [0, n) into ranges and calls fn on each.
type Runner interface {
	Range(ctx context.Context, n int, fn func(ctx context.Context, lo, hi int) error) error
}

type serial struct{}

func (serial) Range(ctx context.Context, n int, fn func(ctx context.Context, lo, hi int) error) error {
	if n <= 0 {
		return nil
	}
	return fn(ctx, 0, n)
}

// Stats counts what an annotation pass did.
type Stats struct {
	Considered int // records on a valid date
	Initial    int
	Second     int
	Unmatched  int // considered but not on a layout well
}

func (s *Stats) add(o Stats) {
	s.Considered += o.Considered
	s.Initial += o.Initial
	s.Second += o.Second
	s.Unmatched += o.Unmatched
}

// Annotator writes layout positions into records.
type Annotator struct {
	runner Runner
}

// New creates an Annotator. Without WithRunner it works sequentially.
func New(opts ...Option) *Annotator {
	a := &Annotator{runner: serial{}}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Annotate sets SampleGroup, SampleIndex and Measurement on every record
// dated on one of the layout's valid dates. Records on a valid date whose
// well is outside the layout are cleared; records on other dates are left
// as they are. Running it twice gives the same result.
func (a *Annotator) Annotate(ctx context.Context, records []model.Record, l *layout.Layout) (Stats, error) {
	var (
		mu    sync.Mutex
		total Stats
	)
	err := a.runner.Range(ctx, len(records), func(ctx context.Context, lo, hi int) error {
		var st Stats
		for i := lo; i < hi; i++ {
			if i%1024 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			annotateOne(&records[i], l, &st)
		}
		mu.Lock()
		total.add(st)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return Stats{}, err
	}
	return total, nil
}

func annotateOne(r *model.Record, l *layout.Layout, st *Stats) {
	if !l.ValidOn(r.Timestamp) {
		return
	}
	st.Considered++

	pos, ok := l.Locate(r.Well)
	if !ok {
		r.SampleGroup = ""
		r.SampleIndex = 0
		r.Measurement = model.MeasurementUnset
		st.Unmatched++
		return
	}

	r.SampleGroup = pos.Group
	r.SampleIndex = pos.Index
	switch pos.Compartment {
	case layout.Before:
		r.Measurement = model.MeasurementInitial
		st.Initial++
	case layout.After:
		r.Measurement = model.MeasurementSecond
		st.Second++
	}
}
