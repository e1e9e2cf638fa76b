package csvsource

import "time"

// Option applies a configuration option to the Reader.
type Option func(*Reader)

// WithColumns overrides the header names. Empty names keep the default.
func WithColumns(c Columns) Option {
	return func(r *Reader) {
		if c.Well != "" {
			r.columns.Well = c.Well
		}
		if c.Timestamp != "" {
			r.columns.Timestamp = c.Timestamp
		}
		if c.RecordID != "" {
			r.columns.RecordID = c.RecordID
		}
		if c.EventCount != "" {
			r.columns.EventCount = c.EventCount
		}
	}
}

// WithTimestampLayouts replaces the accepted timestamp formats, tried in order.
func WithTimestampLayouts(layouts ...string) Option {
	return func(r *Reader) {
		if len(layouts) > 0 {
			r.layouts = append([]string(nil), layouts...)
		}
	}
}

// WithLocation sets the zone for timestamps that carry none.
func WithLocation(loc *time.Location) Option {
	return func(r *Reader) {
		if loc != nil {
			r.location = loc
		}
	}
}

// WithComma sets the field delimiter.
func WithComma(c rune) Option {
	return func(r *Reader) {
		if c != 0 {
			r.comma = c
		}
	}
}
