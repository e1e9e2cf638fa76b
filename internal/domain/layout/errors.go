package layout

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	ErrConfiguration = errors.New("layout configuration error")
)

// ConfigError describes why a layout could not be constructed.
type ConfigError struct {
	Layout string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Layout == "" {
		return fmt.Sprintf("%s: %s", ErrConfiguration, e.Reason)
	}
	return fmt.Sprintf("%s: layout %q: %s", ErrConfiguration, e.Layout, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfiguration }
