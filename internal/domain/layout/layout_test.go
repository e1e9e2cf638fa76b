package layout_test

import (
	"errors"
	"testing"
	"time"

	"github.com/accakut/facspair/internal/domain/layout"
	"github.com/accakut/facspair/internal/domain/plate"
	"github.com/smartystreets/goconvey/convey"
)

func well(s string) plate.Well { return plate.MustParseWell(s) }

func names(wells []plate.Well) []string {
	out := make([]string, len(wells))
	for i, w := range wells {
		out[i] = w.String()
	}
	return out
}

func jan10() layout.DateSet {
	return layout.NewDateSet(layout.Date{Year: 2024, Month: time.January, Day: 10})
}

func TestNewLayout(t *testing.T) {
	convey.Convey("Given a hybrid group A1..A4 with a row offset of 4", t, func() {
		l, err := layout.New(
			plate.Default(),
			map[string]plate.RangeSpec{"hybrid": plate.Span(well("A1"), well("A4"))},
			layout.RowOffset(4),
			jan10(),
			layout.WithName("plate-1"),
		)

		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the after wells are four rows down", func() {
			convey.So(names(l.Wells("hybrid", layout.Before)), convey.ShouldResemble, []string{"A1", "A2", "A3", "A4"})
			convey.So(names(l.Wells("hybrid", layout.After)), convey.ShouldResemble, []string{"E1", "E2", "E3", "E4"})
			convey.So(l.Offset(), convey.ShouldEqual, 4)
			convey.So(l.Name(), convey.ShouldEqual, "plate-1")
		})

		convey.Convey("Then each before well maps to its after well", func() {
			partner, ok := l.Partner("A1")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(partner, convey.ShouldEqual, "E1")
			convey.So(l.Pairings(), convey.ShouldResemble, map[string]string{"A1": "E1", "A2": "E2", "A3": "E3", "A4": "E4"})
			convey.So(l.Len(), convey.ShouldEqual, 4)

			_, ok = l.Partner("E1")
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("Then wells are located with group, index and compartment", func() {
			pos, ok := l.Locate("A3")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(pos, convey.ShouldResemble, layout.Position{Group: "hybrid", Index: 3, Compartment: layout.Before})

			pos, ok = l.Locate("e02")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(pos, convey.ShouldResemble, layout.Position{Group: "hybrid", Index: 2, Compartment: layout.After})

			_, ok = l.Locate("H12")
			convey.So(ok, convey.ShouldBeFalse)
			_, ok = l.Locate("not-a-well")
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("Then the layout is valid only on its dates", func() {
			convey.So(l.ValidOn(time.Date(2024, 1, 10, 23, 59, 0, 0, time.UTC)), convey.ShouldBeTrue)
			convey.So(l.ValidOn(time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)), convey.ShouldBeFalse)
		})

		convey.Convey("Then returned slices do not alias the layout", func() {
			wells := l.Wells("hybrid", layout.Before)
			wells[0] = well("H12")
			convey.So(l.Wells("hybrid", layout.Before)[0].String(), convey.ShouldEqual, "A1")
		})
	})

	convey.Convey("Given an explicit after start well", t, func() {
		l, err := layout.New(
			plate.Default(),
			map[string]plate.RangeSpec{
				"hybrid":  plate.Run(well("B1"), 12),
				"control": plate.Span(well("C1"), well("C6")),
			},
			layout.StartWell(well("E1")),
			jan10(),
		)

		convey.Convey("Then the offset is measured from the topmost-leftmost before well", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(l.ReferenceWell().String(), convey.ShouldEqual, "B1")
			convey.So(l.Offset(), convey.ShouldEqual, 3)
			convey.So(names(l.Wells("control", layout.After)), convey.ShouldResemble, []string{"F1", "F2", "F3", "F4", "F5", "F6"})
			convey.So(l.Groups(), convey.ShouldResemble, []string{"control", "hybrid"})
		})
	})

	convey.Convey("Given before wells at columns 2 and 10 of the same row", t, func() {
		l, err := layout.New(
			plate.Default(),
			map[string]plate.RangeSpec{
				"late":  plate.Span(well("A10"), well("A12")),
				"early": plate.Run(well("A2"), 1),
			},
			layout.StartWell(well("D1")),
			jan10(),
		)

		convey.Convey("Then the reference well is chosen by column number, not text", func() {
			// Text ordering would pick "A10" here.
			convey.So(err, convey.ShouldBeNil)
			convey.So(l.ReferenceWell().String(), convey.ShouldEqual, "A2")
			convey.So(l.Offset(), convey.ShouldEqual, 3)
		})
	})

	convey.Convey("Given a negative row offset", t, func() {
		l, err := layout.New(
			plate.Default(),
			map[string]plate.RangeSpec{"ancestor": plate.Run(well("E1"), 3)},
			layout.RowOffset(-4),
			jan10(),
		)
		convey.So(err, convey.ShouldBeNil)
		convey.So(names(l.Wells("ancestor", layout.After)), convey.ShouldResemble, []string{"A1", "A2", "A3"})
	})
}

func TestNewLayoutErrors(t *testing.T) {
	convey.Convey("Given invalid layout configurations", t, func() {
		ranges := map[string]plate.RangeSpec{"hybrid": plate.Span(well("A1"), well("A4"))}

		convey.Convey("When no dates are given", func() {
			_, err := layout.New(plate.Default(), ranges, layout.RowOffset(4), nil)

			convey.Convey("Then it is a configuration error", func() {
				convey.So(errors.Is(err, layout.ErrConfiguration), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "explicit valid dates")
			})
		})

		convey.Convey("When no groups are given", func() {
			_, err := layout.New(plate.Default(), nil, layout.RowOffset(4), jan10())
			convey.So(errors.Is(err, layout.ErrConfiguration), convey.ShouldBeTrue)
		})

		convey.Convey("When two groups share a before well", func() {
			_, err := layout.New(plate.Default(), map[string]plate.RangeSpec{
				"hybrid":  plate.Span(well("A1"), well("A4")),
				"control": plate.Run(well("A4"), 2),
			}, layout.RowOffset(4), jan10(), layout.WithName("clash"))

			convey.Convey("Then the collision is reported", func() {
				var cfgErr *layout.ConfigError
				convey.So(errors.As(err, &cfgErr), convey.ShouldBeTrue)
				convey.So(cfgErr.Layout, convey.ShouldEqual, "clash")
				convey.So(cfgErr.Reason, convey.ShouldContainSubstring, "A4")
			})
		})

		convey.Convey("When a before well is also an after well", func() {
			_, err := layout.New(plate.Default(), map[string]plate.RangeSpec{
				"hybrid": plate.Span(well("A1"), well("B2")),
			}, layout.RowOffset(1), jan10())
			convey.So(errors.Is(err, layout.ErrConfiguration), convey.ShouldBeTrue)
		})

		convey.Convey("When a before well of one group is an after well of another", func() {
			_, err := layout.New(plate.Default(), map[string]plate.RangeSpec{
				"a": plate.Span(well("A1"), well("A12")),
				"b": plate.Span(well("C1"), well("C12")),
			}, layout.RowOffset(2), jan10())

			convey.Convey("Then the reason names both groups and the single-position rule", func() {
				var cfgErr *layout.ConfigError
				convey.So(errors.As(err, &cfgErr), convey.ShouldBeTrue)
				convey.So(cfgErr.Reason, convey.ShouldContainSubstring, `well C1 is a before well of "b" and an after well of "a"`)
				convey.So(cfgErr.Reason, convey.ShouldContainSubstring, "single group, index and compartment")
			})
		})

		convey.Convey("When the shifted wells leave the plate", func() {
			_, err := layout.New(plate.Default(), ranges, layout.RowOffset(8), jan10())

			convey.Convey("Then it is an invalid range", func() {
				convey.So(errors.Is(err, plate.ErrInvalidRange), convey.ShouldBeTrue)
				convey.So(errors.Is(err, layout.ErrConfiguration), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When a group range is invalid", func() {
			_, err := layout.New(plate.Default(), map[string]plate.RangeSpec{
				"hybrid": plate.Span(well("B1"), well("A1")),
			}, layout.RowOffset(4), jan10())
			convey.So(errors.Is(err, plate.ErrInvalidRange), convey.ShouldBeTrue)
		})

		convey.Convey("When a group name is empty", func() {
			_, err := layout.New(plate.Default(), map[string]plate.RangeSpec{
				"": plate.Run(well("A1"), 1),
			}, layout.RowOffset(4), jan10())
			convey.So(errors.Is(err, layout.ErrConfiguration), convey.ShouldBeTrue)
		})
	})
}

func TestPairingIsInjective(t *testing.T) {
	convey.Convey("Given a layout with several groups", t, func() {
		l, err := layout.New(plate.Default(), map[string]plate.RangeSpec{
			"hybrid":    plate.Run(well("A1"), 14),
			"control":   plate.Run(well("B3"), 6),
			"ancestor":  plate.Span(well("B9"), well("C4")),
			"reference": plate.Run(well("C5"), 2),
		}, layout.StartWell(well("E1")), jan10())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then every before well has exactly one distinct partner in the same column", func() {
			seen := make(map[string]bool)
			total := 0
			for _, g := range l.Groups() {
				before := l.Wells(g, layout.Before)
				after := l.Wells(g, layout.After)
				convey.So(len(after), convey.ShouldEqual, len(before))
				for i, b := range before {
					partner, ok := l.Partner(b.String())
					convey.So(ok, convey.ShouldBeTrue)
					convey.So(partner, convey.ShouldEqual, after[i].String())
					convey.So(after[i].Column, convey.ShouldEqual, b.Column)
					convey.So(after[i].Row-b.Row, convey.ShouldEqual, l.Offset())
					convey.So(seen[partner], convey.ShouldBeFalse)
					seen[partner] = true
					total++
				}
			}
			convey.So(l.Len(), convey.ShouldEqual, total)
		})
	})
}

func TestParseAfterStart(t *testing.T) {
	convey.Convey("Given after start text", t, func() {
		a, err := layout.ParseAfterStart("4")
		convey.So(err, convey.ShouldBeNil)
		_, isWell := a.Well()
		convey.So(isWell, convey.ShouldBeFalse)
		convey.So(a.String(), convey.ShouldEqual, "4")

		a, err = layout.ParseAfterStart(" -2 ")
		convey.So(err, convey.ShouldBeNil)
		convey.So(a.String(), convey.ShouldEqual, "-2")

		a, err = layout.ParseAfterStart("e1")
		convey.So(err, convey.ShouldBeNil)
		w, isWell := a.Well()
		convey.So(isWell, convey.ShouldBeTrue)
		convey.So(w.String(), convey.ShouldEqual, "E1")

		_, err = layout.ParseAfterStart("later")
		convey.So(errors.Is(err, layout.ErrConfiguration), convey.ShouldBeTrue)
	})
}
