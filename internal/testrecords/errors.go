package testrecords

import "errors"

var (
	ErrNoLayouts     = errors.New("no layouts to generate records for")
	ErrInvalidWindow = errors.New("invalid pairing window")
	ErrWindowTooWide = errors.New("pairing window does not fit into one day")
	ErrVerification  = errors.New("generated records were not paired as expected")
)
