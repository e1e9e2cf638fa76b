package plate_test

import (
	"errors"
	"testing"

	"github.com/accakut/facspair/internal/domain/plate"
	. "github.com/smartystreets/goconvey/convey"
)

func wellNames(wells []plate.Well) []string {
	names := make([]string, len(wells))
	for i, w := range wells {
		names[i] = w.String()
	}
	return names
}

func TestParseWell(t *testing.T) {
	Convey("Given well identifiers", t, func() {
		Convey("When parsing canonical forms", func() {
			a1, err1 := plate.ParseWell("A1")
			h12, err2 := plate.ParseWell("H12")

			Convey("Then row and column are structured", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(a1, ShouldResemble, plate.Well{Row: 0, Column: 1})
				So(h12, ShouldResemble, plate.Well{Row: 7, Column: 12})
			})
		})

		Convey("When parsing lower case and zero-padded forms", func() {
			w, err := plate.ParseWell(" b07 ")

			Convey("Then they normalize to the canonical well", func() {
				So(err, ShouldBeNil)
				So(w.String(), ShouldEqual, "B7")
			})
		})

		Convey("When parsing malformed identifiers", func() {
			for _, in := range []string{"", "A", "1A", "A0", "A-1", "A+1", "AA1", "?3"} {
				_, err := plate.ParseWell(in)
				So(err, ShouldNotBeNil)
				So(errors.Is(err, plate.ErrInvalidWell), ShouldBeTrue)
			}
		})
	})
}

func TestCompare(t *testing.T) {
	Convey("Given wells in different rows and columns", t, func() {
		a2 := plate.MustParseWell("A2")
		a10 := plate.MustParseWell("A10")
		b1 := plate.MustParseWell("B1")

		Convey("Then columns compare numerically, not as text", func() {
			So(plate.Compare(a2, a10), ShouldEqual, -1)
			So(a2.Less(a10), ShouldBeTrue)
		})

		Convey("Then rows dominate columns", func() {
			So(a10.Less(b1), ShouldBeTrue)
			So(plate.Compare(b1, a10), ShouldEqual, 1)
		})

		Convey("Then equal wells compare equal", func() {
			So(plate.Compare(a2, plate.MustParseWell("a02")), ShouldEqual, 0)
		})
	})
}

func TestNewPlate(t *testing.T) {
	Convey("Given plate geometries", t, func() {
		p, err := plate.New(16, 24)
		So(err, ShouldBeNil)
		So(p.Size(), ShouldEqual, 384)

		_, err = plate.New(0, 12)
		So(err, ShouldNotBeNil)

		_, err = plate.New(27, 12)
		So(err, ShouldNotBeNil)

		_, err = plate.New(8, 0)
		So(err, ShouldNotBeNil)

		So(plate.Default(), ShouldResemble, plate.Plate{Rows: 8, Columns: 12})
	})
}

func TestShift(t *testing.T) {
	Convey("Given the default plate", t, func() {
		p := plate.Default()

		Convey("When shifting inside the plate", func() {
			w, err := p.Shift(plate.MustParseWell("A3"), 4)
			So(err, ShouldBeNil)
			So(w.String(), ShouldEqual, "E3")
		})

		Convey("When shifting past the last row", func() {
			_, err := p.Shift(plate.MustParseWell("F3"), 4)
			So(errors.Is(err, plate.ErrInvalidRange), ShouldBeTrue)
		})

		Convey("When shifting above the first row", func() {
			_, err := p.Shift(plate.MustParseWell("B3"), -2)
			So(errors.Is(err, plate.ErrInvalidRange), ShouldBeTrue)
		})
	})
}
