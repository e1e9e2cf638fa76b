package model_test

import (
	"testing"
	"time"

	model "github.com/accakut/facspair/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestRecord(t *testing.T) {
	convey.Convey("Given a Record struct", t, func() {
		convey.Convey("When created from input fields only", func() {
			r := model.Record{
				Well:       "A1",
				Timestamp:  time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
				RecordID:   "guid-1",
				EventCount: 100,
			}

			convey.Convey("Then derived fields are unset", func() {
				convey.So(r.SampleGroup, convey.ShouldEqual, "")
				convey.So(r.SampleIndex, convey.ShouldEqual, 0)
				convey.So(r.Measurement, convey.ShouldEqual, model.MeasurementUnset)
				convey.So(r.IsInitial(), convey.ShouldBeFalse)
				convey.So(r.IsPaired(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When annotated and paired", func() {
			r := model.Record{Measurement: model.MeasurementInitial}
			r.Pairing = &model.Pairing{Well: "E1", RecordID: "guid-2", EventCount: 40}

			convey.So(r.IsInitial(), convey.ShouldBeTrue)
			convey.So(r.IsPaired(), convey.ShouldBeTrue)
		})
	})
}

func TestMeasurementString(t *testing.T) {
	convey.Convey("Given measurement kinds", t, func() {
		convey.So(model.MeasurementUnset.String(), convey.ShouldEqual, "unset")
		convey.So(model.MeasurementInitial.String(), convey.ShouldEqual, "initial")
		convey.So(model.MeasurementSecond.String(), convey.ShouldEqual, "second")
	})
}

func TestExperiment(t *testing.T) {
	convey.Convey("Given an experiment description", t, func() {
		e := model.Experiment{
			NumberOfHybrids:   24,
			NumberOfControls:  6,
			NumberOfAncestors: 3,
			NumberOfReference: 2,
			NumberOfGFP:       1,
		}

		convey.So(e.Samples(), convey.ShouldEqual, 36)
	})
}
