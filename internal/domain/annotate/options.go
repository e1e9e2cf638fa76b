package annotate

// Option applies a configuration option to the Annotator.
type Option func(*Annotator)

// WithRunner spreads annotation over r, e.g. a worker pool.
func WithRunner(r Runner) Option {
	return func(a *Annotator) {
		if r != nil {
			a.runner = r
		}
	}
}
