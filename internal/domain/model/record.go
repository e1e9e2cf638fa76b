// Package model contains domain models passed between layers.
package model

import "time"

// Measurement tells which of the two readings of a sample a record is.
type Measurement uint8

const (
	// MeasurementUnset marks records not (yet) matched to a layout well.
	MeasurementUnset Measurement = iota
	// MeasurementInitial is the "before" reading.
	MeasurementInitial
	// MeasurementSecond is the "after" reading.
	MeasurementSecond
)

func (m Measurement) String() string {
	switch m {
	case MeasurementInitial:
		return "initial"
	case MeasurementSecond:
		return "second"
	}
	return "unset"
}

// Pairing links a before record to its after record.
type Pairing struct {
	Well       string
	RecordID   string
	EventCount int64
}

// Record is one measurement event of a single well.
//
// Well, Timestamp, RecordID and EventCount come from the input. The remaining
// fields are derived by annotation and pairing; a nil Pairing means unpaired.
type Record struct {
	Well       string    // well identifier as read, e.g. "A1"
	Timestamp  time.Time // record date
	RecordID   string    // stable unique id (GUID)
	EventCount int64     // GFP positive events

	SampleGroup string
	SampleIndex int // 1-based; 0 when unset
	Measurement Measurement
	Pairing     *Pairing
}

// IsInitial reports whether the record is a before measurement.
func (r *Record) IsInitial() bool { return r.Measurement == MeasurementInitial }

// IsPaired reports whether the record already carries a pairing.
func (r *Record) IsPaired() bool { return r.Pairing != nil }
