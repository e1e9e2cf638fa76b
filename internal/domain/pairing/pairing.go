// Package pairing links each initial measurement to the second measurement
// of the same sample.
package pairing

import (
	"context"
	"sync"
	"time"

	"github.com/accakut/facspair/internal/adapters/repository"
	"github.com/accakut/facspair/internal/domain/layout"
	"github.com/accakut/facspair/internal/domain/model"
)

// Default pairing window.
const (
	DefaultMinDelay = time.Hour
	DefaultMaxDelay = 8 * time.Hour
)

// Outcome labels, as used by Stats.ByOutcome.
const (
	OutcomePaired       = "paired"
	OutcomeNoMatch      = "no_match"
	OutcomeDateMismatch = "date_mismatch"
	OutcomeNoPartner    = "no_partner"
	OutcomeSkipped      = "skipped"
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

// Stats counts the outcome for every initial measurement visited.
type Stats struct {
	Paired       int
	NoMatch      int // no after record inside the window
	DateMismatch int // before or after record outside the layout dates
	NoPartner    int // well has no after partner in the layout
	Skipped      int // already paired
}

// ByOutcome returns the counts keyed by outcome label.
func (s Stats) ByOutcome() map[string]int {
	return map[string]int{
		OutcomePaired:       s.Paired,
		OutcomeNoMatch:      s.NoMatch,
		OutcomeDateMismatch: s.DateMismatch,
		OutcomeNoPartner:    s.NoPartner,
		OutcomeSkipped:      s.Skipped,
	}
}

type outcome uint8

const (
	none outcome = iota
	paired
	noMatch
	dateMismatch
	noPartner
	skipped
)

type decision struct {
	outcome outcome
	partner int
}

// Pairer finds, for every initial measurement, the unique second
// measurement on its partner well within the delay window.
type Pairer struct {
	minDelay time.Duration
	maxDelay time.Duration
	runner   Runner
}

// New creates a Pairer with the default 1h..8h window.
func New(opts ...Option) *Pairer {
	p := &Pairer{
		minDelay: DefaultMinDelay,
		maxDelay: DefaultMaxDelay,
		runner:   serial{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Window returns the configured delay window.
func (p *Pairer) Window() (minDelay, maxDelay time.Duration) {
	return p.minDelay, p.maxDelay
}

// Pair sets Pairing on every unpaired initial measurement that has exactly
// one after record on its partner well within the window, where both records
// fall on a layout date. Records already paired are left alone.
//
// Decisions are taken against a snapshot of records taken before any write.
// If any initial measurement has more than one candidate nothing is written
// and an *AmbiguousPairingError for the earliest such record is returned.
func (p *Pairer) Pair(ctx context.Context, records []model.Record, l *layout.Layout) (Stats, error) {
	idx := repository.NewWellIndex(records)
	decisions := make([]decision, len(records))

	var (
		mu       sync.Mutex
		firstPos = -1
		firstErr *AmbiguousPairingError
	)

	err := p.runner.Range(ctx, len(records), func(ctx context.Context, lo, hi int) error {
		for i := lo; i < hi; i++ {
			if i%1024 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			d, amb := p.decide(records, i, idx, l)
			if amb != nil {
				mu.Lock()
				if firstPos < 0 || i < firstPos {
					firstPos, firstErr = i, amb
				}
				mu.Unlock()
				return nil
			}
			decisions[i] = d
		}
		return nil
	})
	if err != nil {
		return Stats{}, err
	}
	if firstErr != nil {
		return Stats{}, firstErr
	}

	var st Stats
	for i, d := range decisions {
		switch d.outcome {
		case paired:
			after := &records[d.partner]
			records[i].Pairing = &model.Pairing{
				Well:       after.Well,
				RecordID:   after.RecordID,
				EventCount: after.EventCount,
			}
			st.Paired++
		case noMatch:
			st.NoMatch++
		case dateMismatch:
			st.DateMismatch++
		case noPartner:
			st.NoPartner++
		case skipped:
			st.Skipped++
		}
	}
	return st, nil
}

func (p *Pairer) decide(records []model.Record, i int, idx *repository.WellIndex, l *layout.Layout) (decision, *AmbiguousPairingError) {
	r := &records[i]
	if !r.IsInitial() {
		return decision{}, nil
	}
	if r.IsPaired() {
		return decision{outcome: skipped}, nil
	}
	if !l.ValidOn(r.Timestamp) {
		return decision{outcome: dateMismatch}, nil
	}
	partnerWell, ok := l.Partner(r.Well)
	if !ok {
		return decision{outcome: noPartner}, nil
	}

	candidates := idx.Window(partnerWell, r.Timestamp.Add(p.minDelay), r.Timestamp.Add(p.maxDelay))
	switch len(candidates) {
	case 0:
		return decision{outcome: noMatch}, nil
	case 1:
		if !l.ValidOn(records[candidates[0]].Timestamp) {
			return decision{outcome: dateMismatch}, nil
		}
		return decision{outcome: paired, partner: candidates[0]}, nil
	}

	ids := make([]string, len(candidates))
	for k, c := range candidates {
		ids[k] = records[c].RecordID
	}
	return decision{}, &AmbiguousPairingError{
		RecordID:   r.RecordID,
		Well:       r.Well,
		Timestamp:  r.Timestamp,
		Candidates: ids,
	}
}
