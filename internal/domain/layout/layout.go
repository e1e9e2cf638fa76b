// Package layout derives the before/after well structure of a plate from
// per-group well ranges and the location of the "after" compartment.
//
// A Layout is immutable once built and safe for concurrent readers.
package layout

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/accakut/facspair/internal/domain/plate"
)

// Compartment tells whether a well holds the first or the second
// measurement of a sample.
type Compartment uint8

const (
	// Before holds the initial measurement.
	Before Compartment = iota + 1
	// After holds the second measurement, a fixed row offset away.
	After
)

func (c Compartment) String() string {
	switch c {
	case Before:
		return "before"
	case After:
		return "after"
	}
	return "unknown"
}

// Position is where a well sits within a layout.
type Position struct {
	Group       string
	Index       int // 1-based position in the group's sequence
	Compartment Compartment
}

// AfterStart locates the after compartment, either as a row offset or as
// the well where the after compartment begins.
type AfterStart struct {
	offset int
	well   plate.Well
	isWell bool
}

// RowOffset places the after compartment n rows below the before wells.
func RowOffset(n int) AfterStart { return AfterStart{offset: n} }

// StartWell places the after compartment so that the topmost-leftmost
// before well maps onto w's row.
func StartWell(w plate.Well) AfterStart { return AfterStart{well: w, isWell: true} }

// ParseAfterStart reads an integer row offset ("4", "-2") or a well ("E1").
func ParseAfterStart(s string) (AfterStart, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return RowOffset(n), nil
	}
	w, err := plate.ParseWell(s)
	if err != nil {
		return AfterStart{}, &ConfigError{Reason: fmt.Sprintf("after start %q is neither a row offset nor a well", s)}
	}
	return StartWell(w), nil
}

// Well returns the explicit start well, if the after start is one.
func (a AfterStart) Well() (plate.Well, bool) { return a.well, a.isWell }

func (a AfterStart) String() string {
	if a.isWell {
		return a.well.String()
	}
	return strconv.Itoa(a.offset)
}

// Option applies a configuration option to a Layout.
type Option func(*Layout)

// WithName labels the layout for diagnostics.
func WithName(name string) Option {
	return func(l *Layout) {
		l.name = name
	}
}

// Layout is the materialized well structure of one plate configuration.
type Layout struct {
	name       string
	plate      plate.Plate
	ranges     map[string]plate.RangeSpec
	groups     []string
	afterStart AfterStart
	dates      DateSet

	offset    int
	reference plate.Well
	before    map[string][]plate.Well
	after     map[string][]plate.Well
	pairing   map[string]string
	index     map[string]Position
}

// New resolves every group's wells, computes the plate-wide row offset and
// builds the before->after correspondence.
func New(p plate.Plate, ranges map[string]plate.RangeSpec, afterStart AfterStart, dates DateSet, opts ...Option) (*Layout, error) {
	l := &Layout{
		plate:      p,
		ranges:     make(map[string]plate.RangeSpec, len(ranges)),
		afterStart: afterStart,
		before:     make(map[string][]plate.Well, len(ranges)),
		after:      make(map[string][]plate.Well, len(ranges)),
		pairing:    make(map[string]string),
		index:      make(map[string]Position),
	}
	for _, opt := range opts {
		opt(l)
	}

	if len(dates) == 0 {
		return nil, &ConfigError{Layout: l.name, Reason: "a layout must have explicit valid dates"}
	}
	if len(ranges) == 0 {
		return nil, &ConfigError{Layout: l.name, Reason: "a layout must define at least one sample group"}
	}
	l.dates = make(DateSet, len(dates))
	for d := range dates {
		l.dates[d] = struct{}{}
	}

	for group, spec := range ranges {
		if group == "" {
			return nil, &ConfigError{Layout: l.name, Reason: "sample group name must not be empty"}
		}
		l.ranges[group] = spec
		l.groups = append(l.groups, group)
	}
	sort.Strings(l.groups)

	owner := make(map[plate.Well]string)
	first := true
	for _, group := range l.groups {
		wells, err := p.Expand(l.ranges[group])
		if err != nil {
			return nil, fmt.Errorf("layout %q group %q: %w", l.name, group, err)
		}
		for _, w := range wells {
			if prev, taken := owner[w]; taken {
				return nil, &ConfigError{
					Layout: l.name,
					Reason: fmt.Sprintf("well %s is assigned to both %q and %q", w, prev, group),
				}
			}
			owner[w] = group
			if first || w.Less(l.reference) {
				l.reference = w
				first = false
			}
		}
		l.before[group] = wells
	}

	l.offset = afterStart.offset
	if start, ok := afterStart.Well(); ok {
		l.offset = start.Row - l.reference.Row
	}

	for _, group := range l.groups {
		before := l.before[group]
		after := make([]plate.Well, len(before))
		for i, w := range before {
			shifted, err := p.Shift(w, l.offset)
			if err != nil {
				return nil, fmt.Errorf("layout %q group %q after compartment: %w", l.name, group, err)
			}
			after[i] = shifted
			l.pairing[w.String()] = shifted.String()
			l.index[w.String()] = Position{Group: group, Index: i + 1, Compartment: Before}
		}
		l.after[group] = after
	}

	for _, group := range l.groups {
		for i, w := range l.after[group] {
			if prev, clash := l.index[w.String()]; clash {
				reason := fmt.Sprintf("well %s is an after well of both %q and %q", w, prev.Group, group)
				if prev.Compartment == Before {
					reason = fmt.Sprintf("well %s is a before well of %q and an after well of %q; "+
						"a well must map to a single group, index and compartment", w, prev.Group, group)
				}
				return nil, &ConfigError{Layout: l.name, Reason: reason}
			}
			l.index[w.String()] = Position{Group: group, Index: i + 1, Compartment: After}
		}
	}

	return l, nil
}

// Name returns the label given with WithName.
func (l *Layout) Name() string { return l.name }

// Plate returns the plate geometry.
func (l *Layout) Plate() plate.Plate { return l.plate }

// Groups returns the sample group names in sorted order.
func (l *Layout) Groups() []string {
	return append([]string(nil), l.groups...)
}

// Range returns the range spec a group was configured with.
func (l *Layout) Range(group string) (plate.RangeSpec, bool) {
	spec, ok := l.ranges[group]
	return spec, ok
}

// Wells returns a group's well sequence for the given compartment.
func (l *Layout) Wells(group string, c Compartment) []plate.Well {
	var src []plate.Well
	switch c {
	case Before:
		src = l.before[group]
	case After:
		src = l.after[group]
	}
	return append([]plate.Well(nil), src...)
}

// AfterStart returns the configured after-compartment location.
func (l *Layout) AfterStart() AfterStart { return l.afterStart }

// Offset is the plate-wide row delta from a before well to its after well.
func (l *Layout) Offset() int { return l.offset }

// ReferenceWell is the topmost-leftmost before well, compared by row and
// then column number.
func (l *Layout) ReferenceWell() plate.Well { return l.reference }

// Dates returns a copy of the valid dates.
func (l *Layout) Dates() DateSet {
	out := make(DateSet, len(l.dates))
	for d := range l.dates {
		out[d] = struct{}{}
	}
	return out
}

// ValidOn reports whether t falls on one of the layout's dates.
func (l *Layout) ValidOn(t time.Time) bool { return l.dates.Contains(t) }

// Locate finds the group, index and compartment of a well.
func (l *Layout) Locate(well string) (Position, bool) {
	if pos, ok := l.index[well]; ok {
		return pos, true
	}
	w, err := plate.ParseWell(well)
	if err != nil {
		return Position{}, false
	}
	pos, ok := l.index[w.String()]
	return pos, ok
}

// Partner returns the after well paired with a before well.
func (l *Layout) Partner(well string) (string, bool) {
	if partner, ok := l.pairing[well]; ok {
		return partner, true
	}
	w, err := plate.ParseWell(well)
	if err != nil {
		return "", false
	}
	partner, ok := l.pairing[w.String()]
	return partner, ok
}

// Pairings returns a copy of the before->after correspondence.
func (l *Layout) Pairings() map[string]string {
	out := make(map[string]string, len(l.pairing))
	for k, v := range l.pairing {
		out[k] = v
	}
	return out
}

// Len returns the number of before wells.
func (l *Layout) Len() int { return len(l.pairing) }
