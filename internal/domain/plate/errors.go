package plate

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	ErrInvalidRange = errors.New("invalid well range")
	ErrInvalidWell  = errors.New("invalid well identifier")
)

// RangeError reports a range or shifted well that does not fit the plate.
type RangeError struct {
	Spec   string
	Reason string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %s: %s", ErrInvalidRange, e.Spec, e.Reason)
}

func (e *RangeError) Unwrap() error { return ErrInvalidRange }

// WellError reports a malformed well identifier.
type WellError struct {
	Input string
}

func (e *WellError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidWell, e.Input)
}

func (e *WellError) Unwrap() error { return ErrInvalidWell }
