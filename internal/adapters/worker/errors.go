package worker

import "errors"

// ErrNilFunc is returned when Range is called without a chunk function.
var ErrNilFunc = errors.New("worker: nil chunk function")
