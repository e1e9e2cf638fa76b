// Package testrecords generates synthetic cytometer exports for configured
// layouts and checks that the pipeline pairs them back as generated.
package testrecords

import (
	"time"

	"github.com/accakut/facspair/internal/domain/layout"
)

// Config holds configuration for a generation run
type Config struct {
	Layouts    []*layout.Layout
	MinDelay   time.Duration // earliest after reading, relative to its before reading
	MaxDelay   time.Duration // latest after reading
	Noise      int           // records on wells and days outside every layout
	Duplicates int           // re-emitted records sharing an existing GUID
	Workers    int           // generation and verification workers
	OutputFile string        // CSV output; empty picks a timestamped name
	LogFile    string        // Log file for generator output
	Verify     bool          // run the pipeline on the generated export
}

// Stats holds generation statistics
type Stats struct {
	BeforeRecords    int
	AfterRecords     int
	NoiseRecords     int
	DuplicateRecords int
	Paired           int
	Mismatched       int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}

// Total returns the number of rows written.
func (s *Stats) Total() int {
	return s.BeforeRecords + s.AfterRecords + s.NoiseRecords + s.DuplicateRecords
}
