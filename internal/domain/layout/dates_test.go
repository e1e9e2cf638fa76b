package layout_test

import (
	"testing"
	"time"

	"github.com/accakut/facspair/internal/domain/layout"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseDate(t *testing.T) {
	Convey("Given dates in the accepted textual forms", t, func() {
		want := layout.Date{Year: 2024, Month: time.January, Day: 10}

		for _, in := range []string{"2024-01-10", "2024/01/10", "10.01.2024", "2024-01-10T08:00:00Z", " 2024-01-10 "} {
			d, err := layout.ParseDate(in)
			So(err, ShouldBeNil)
			So(d, ShouldResemble, want)
		}

		Convey("When the text is not a date", func() {
			_, err := layout.ParseDate("yesterday")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestDateSet(t *testing.T) {
	Convey("Given a set of dates", t, func() {
		set, err := layout.ParseDates("2024-01-11", "2024-01-10", "2023-12-31")
		So(err, ShouldBeNil)

		Convey("Then membership uses the timestamp's own calendar date", func() {
			cet := time.FixedZone("CET", 3600)
			// 2024-01-10 23:30 UTC is already the 11th in CET.
			ts := time.Date(2024, 1, 10, 23, 30, 0, 0, time.UTC)
			So(set.Contains(ts), ShouldBeTrue)
			So(set.Contains(ts.In(cet)), ShouldBeTrue)
			So(set.Contains(time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)), ShouldBeFalse)
		})

		Convey("Then sorted dates are ascending", func() {
			sorted := set.Sorted()
			So(len(sorted), ShouldEqual, 3)
			So(sorted[0].String(), ShouldEqual, "2023-12-31")
			So(sorted[2].String(), ShouldEqual, "2024-01-11")
		})

		Convey("When one of the dates is malformed", func() {
			_, err := layout.ParseDates("2024-01-10", "soon")
			So(err, ShouldNotBeNil)
		})
	})
}
