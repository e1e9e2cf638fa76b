package pairing

import "time"

// Option applies a configuration option to the Pairer.
type Option func(*Pairer)

// WithWindow sets the inclusive delay window [minDelay, maxDelay] in which
// an after record must follow its before record. Negative or inverted
// windows are ignored.
func WithWindow(minDelay, maxDelay time.Duration) Option {
	return func(p *Pairer) {
		if minDelay >= 0 && maxDelay >= minDelay {
			p.minDelay = minDelay
			p.maxDelay = maxDelay
		}
	}
}

// WithRunner computes pairing decisions over r, e.g. a worker pool.
func WithRunner(r Runner) Option {
	return func(p *Pairer) {
		if r != nil {
			p.runner = r
		}
	}
}
