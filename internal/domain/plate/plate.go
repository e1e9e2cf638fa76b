// Package plate models the well grid of a microplate and expands compact
// well-range specifications into explicit, row-major well sequences.
package plate

import (
	"fmt"
	"strconv"
	"strings"
)

// Default plate geometry (96-well plate).
const (
	DefaultRows    = 8
	DefaultColumns = 12
	maxRows        = 26 // one letter per row
)

// Plate describes the grid geometry. Rows are lettered A.. and columns are
// numbered from 1.
type Plate struct {
	Rows    int
	Columns int
}

// Default returns an 8x12 plate.
func Default() Plate {
	return Plate{Rows: DefaultRows, Columns: DefaultColumns}
}

// New returns a plate with the given geometry.
func New(rows, columns int) (Plate, error) {
	if rows < 1 || rows > maxRows {
		return Plate{}, fmt.Errorf("plate rows must be within 1..%d, got %d", maxRows, rows)
	}
	if columns < 1 {
		return Plate{}, fmt.Errorf("plate columns must be positive, got %d", columns)
	}
	return Plate{Rows: rows, Columns: columns}, nil
}

// Well identifies one location on a plate. Row is a 0-based index into the
// row alphabet, Column is 1-based.
type Well struct {
	Row    int
	Column int
}

// String renders the well as row letter followed by column number, e.g. "A1".
func (w Well) String() string {
	if w.Row < 0 || w.Row >= maxRows {
		return fmt.Sprintf("?%d", w.Column)
	}
	return string(rune('A'+w.Row)) + strconv.Itoa(w.Column)
}

// Compare orders wells by row, then column. It returns -1, 0 or +1.
func Compare(a, b Well) int {
	switch {
	case a.Row < b.Row:
		return -1
	case a.Row > b.Row:
		return 1
	case a.Column < b.Column:
		return -1
	case a.Column > b.Column:
		return 1
	}
	return 0
}

// Less reports whether w precedes o in row-major order.
func (w Well) Less(o Well) bool { return Compare(w, o) < 0 }

// ParseWell parses identifiers like "A1", "h12" or "B07".
func ParseWell(s string) (Well, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Well{}, &WellError{Input: s}
	}
	letter := s[0]
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	if letter < 'A' || letter > 'Z' {
		return Well{}, &WellError{Input: s}
	}
	col, err := strconv.Atoi(s[1:])
	if err != nil || col < 1 || s[1] == '+' || s[1] == '-' {
		return Well{}, &WellError{Input: s}
	}
	return Well{Row: int(letter - 'A'), Column: col}, nil
}

// MustParseWell is ParseWell for literals; it panics on malformed input.
func MustParseWell(s string) Well {
	w, err := ParseWell(s)
	if err != nil {
		panic(err)
	}
	return w
}

// Contains reports whether w lies on the plate.
func (p Plate) Contains(w Well) bool {
	return w.Row >= 0 && w.Row < p.Rows && w.Column >= 1 && w.Column <= p.Columns
}

// Size returns the number of wells on the plate.
func (p Plate) Size() int { return p.Rows * p.Columns }

// Shift moves w by rows, keeping the column. The result must stay on the plate.
func (p Plate) Shift(w Well, rows int) (Well, error) {
	shifted := Well{Row: w.Row + rows, Column: w.Column}
	if !p.Contains(shifted) {
		return Well{}, &RangeError{
			Spec:   fmt.Sprintf("%s%+d rows", w, rows),
			Reason: "shifted well falls outside the plate",
		}
	}
	return shifted, nil
}

// ordinal is the row-major position of an on-plate well.
func (p Plate) ordinal(w Well) int {
	return w.Row*p.Columns + (w.Column - 1)
}

func (p Plate) wellAt(ordinal int) Well {
	return Well{Row: ordinal / p.Columns, Column: ordinal%p.Columns + 1}
}
