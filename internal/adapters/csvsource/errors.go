package csvsource

import (
	"errors"
	"fmt"
)

// Sentinel kinds for ingest errors.
var (
	ErrParse         = errors.New("csv parse failed")
	ErrMissingColumn = errors.New("required column missing")
)

// ParseError locates a malformed value in an export.
type ParseError struct {
	Source string // file name or "<input>"
	Line   int    // 1-based, header is line 1
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s: %s line %d: %v", ErrParse, e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %s line %d column %q: %v", ErrParse, e.Source, e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Err} }
