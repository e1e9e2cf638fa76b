package service

import (
	"time"

	"github.com/accakut/facspair/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of annotation and pairing workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithDedupeSize bounds the record-id cache; 0 or less keeps every id.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		s.dedupeSize = size
	}
}

// WithPairingWindow sets the inclusive delay window between the two
// measurements of a sample.
func WithPairingWindow(minDelay, maxDelay time.Duration) Option {
	return func(s *Service) {
		if minDelay >= 0 && maxDelay >= minDelay {
			s.minDelay = minDelay
			s.maxDelay = maxDelay
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}
