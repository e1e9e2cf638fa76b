package plate

import "fmt"

// RangeSpec is a compact description of a run of wells: either an inclusive
// row-major span between two wells, or a count of consecutive wells from a
// start well.
type RangeSpec struct {
	Start Well
	End   Well
	Count int

	byCount bool
}

// Span describes all wells from start to end inclusive in row-major order.
func Span(start, end Well) RangeSpec {
	return RangeSpec{Start: start, End: end}
}

// Run describes count consecutive wells starting at start, wrapping to the
// next row when a row is exhausted.
func Run(start Well, count int) RangeSpec {
	return RangeSpec{Start: start, Count: count, byCount: true}
}

// IsCount reports whether the spec was built with Run.
func (s RangeSpec) IsCount() bool { return s.byCount }

func (s RangeSpec) String() string {
	if s.byCount {
		return fmt.Sprintf("(%s, %d)", s.Start, s.Count)
	}
	return fmt.Sprintf("(%s, %s)", s.Start, s.End)
}

// Expand materializes spec into its ordered well sequence.
func (p Plate) Expand(spec RangeSpec) ([]Well, error) {
	if !p.Contains(spec.Start) {
		return nil, &RangeError{Spec: spec.String(), Reason: fmt.Sprintf("start well %s is not on the plate", spec.Start)}
	}

	first := p.ordinal(spec.Start)
	var last int
	if spec.byCount {
		if spec.Count < 1 {
			return nil, &RangeError{Spec: spec.String(), Reason: "count must be positive"}
		}
		if spec.Count > p.Size()-first {
			return nil, &RangeError{Spec: spec.String(), Reason: "run extends past the last row"}
		}
		last = first + spec.Count - 1
	} else {
		if !p.Contains(spec.End) {
			return nil, &RangeError{Spec: spec.String(), Reason: fmt.Sprintf("end well %s is not on the plate", spec.End)}
		}
		if spec.End.Less(spec.Start) {
			return nil, &RangeError{Spec: spec.String(), Reason: "start well is after end well"}
		}
		last = p.ordinal(spec.End)
	}

	wells := make([]Well, 0, last-first+1)
	for i := first; i <= last; i++ {
		wells = append(wells, p.wellAt(i))
	}
	return wells, nil
}
