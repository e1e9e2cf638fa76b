package service

import "errors"

// ErrNilLayout is returned when Process is handed a nil layout.
var ErrNilLayout = errors.New("nil layout")
