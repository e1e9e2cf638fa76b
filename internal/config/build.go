package config

import (
	"fmt"
	"sort"
	"time"

	"github.com/accakut/facspair/internal/domain/layout"
	"github.com/accakut/facspair/internal/domain/model"
	"github.com/accakut/facspair/internal/domain/plate"
)

// Plate returns the configured plate geometry.
func (c *Config) Plate() (plate.Plate, error) {
	p, err := plate.New(c.PlateRows, c.PlateColumns)
	if err != nil {
		return plate.Plate{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return p, nil
}

// BuildLayouts turns the configured layouts into domain layouts on p.
// Unnamed layouts are called "layout-<n>", counting from 1.
func (c *Config) BuildLayouts(p plate.Plate) ([]*layout.Layout, error) {
	out := make([]*layout.Layout, 0, len(c.Layouts))
	seen := make(map[string]struct{}, len(c.Layouts))
	for i, lc := range c.Layouts {
		name := lc.Name
		if name == "" {
			name = fmt.Sprintf("layout-%d", i+1)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: duplicate layout name %q", ErrInvalidConfig, name)
		}
		seen[name] = struct{}{}

		l, err := lc.build(p, name)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

func (lc Layout) build(p plate.Plate, name string) (*layout.Layout, error) {
	dates, err := layout.ParseDates(lc.Dates...)
	if err != nil {
		return nil, fmt.Errorf("%w: layout %q: %w", ErrInvalidConfig, name, err)
	}

	as, err := layout.ParseAfterStart(lc.AfterStart)
	if err != nil {
		return nil, fmt.Errorf("layout %q: %w", name, err)
	}

	groups := make([]string, 0, len(lc.Wells))
	for g := range lc.Wells {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	ranges := make(map[string]plate.RangeSpec, len(lc.Wells))
	for _, g := range groups {
		spec, err := lc.Wells[g].spec()
		if err != nil {
			return nil, fmt.Errorf("%w: layout %q group %q: %w", ErrInvalidConfig, name, g, err)
		}
		ranges[g] = spec
	}

	return layout.New(p, ranges, as, dates, layout.WithName(name))
}

func (r WellRange) spec() (plate.RangeSpec, error) {
	start, err := plate.ParseWell(r.Start)
	if err != nil {
		return plate.RangeSpec{}, err
	}
	switch {
	case r.Count != 0 && r.End != "":
		return plate.RangeSpec{}, fmt.Errorf("set either end or count")
	case r.End != "":
		end, err := plate.ParseWell(r.End)
		if err != nil {
			return plate.RangeSpec{}, err
		}
		return plate.Span(start, end), nil
	case r.Count != 0:
		return plate.Run(start, r.Count), nil
	}
	return plate.RangeSpec{}, fmt.Errorf("range from %s needs an end or a count", start)
}

// ExperimentModel converts the experiment section.
func (c *Config) ExperimentModel() (model.Experiment, error) {
	e := c.Experiment
	dates := make([]time.Time, 0, len(e.Dates))
	for _, s := range e.Dates {
		d, err := layout.ParseDate(s)
		if err != nil {
			return model.Experiment{}, fmt.Errorf("%w: experiment: %w", ErrInvalidConfig, err)
		}
		dates = append(dates, time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC))
	}
	return model.Experiment{
		Dates:                 dates,
		NumberOfHybrids:       e.NumberOfHybrids,
		NumberOfControls:      e.NumberOfControls,
		NumberOfAncestors:     e.NumberOfAncestors,
		NumberOfReference:     e.NumberOfReference,
		NumberOfGFP:           e.NumberOfGFP,
		MinGFPThresholdBefore: e.MinGFPThresholdBefore,
		MinGFPThresholdAfter:  e.MinGFPThresholdAfter,
		MaxGFPThresholdBefore: e.MaxGFPThresholdBefore,
		MaxGFPThresholdAfter:  e.MaxGFPThresholdAfter,
	}, nil
}
