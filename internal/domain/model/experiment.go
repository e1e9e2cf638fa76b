package model

import "time"

// Experiment is the passive description of an assay run. Layout derivation
// and pairing never read it; downstream analysis uses the thresholds.
type Experiment struct {
	Dates []time.Time // dates of successful runs

	NumberOfHybrids   int // evolved strains with DNA added
	NumberOfControls  int // strains with no DNA added
	NumberOfAncestors int
	NumberOfReference int // recipient strains
	NumberOfGFP       int // GFP-only strains

	// GFP fraction bounds; measurements outside are omitted downstream.
	MinGFPThresholdBefore float64
	MinGFPThresholdAfter  float64
	MaxGFPThresholdBefore float64
	MaxGFPThresholdAfter  float64
}

// Samples returns the total number of configured samples.
func (e Experiment) Samples() int {
	return e.NumberOfHybrids + e.NumberOfControls + e.NumberOfAncestors + e.NumberOfReference + e.NumberOfGFP
}
