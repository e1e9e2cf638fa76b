package pairing

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrAmbiguousPairing means a before record has more than one candidate
// after record inside the pairing window.
var ErrAmbiguousPairing = errors.New("ambiguous pairing")

// AmbiguousPairingError identifies the before record that could not be
// paired unambiguously.
type AmbiguousPairingError struct {
	RecordID   string
	Well       string
	Timestamp  time.Time
	Candidates []string // record IDs of the competing after records
}

func (e *AmbiguousPairingError) Error() string {
	return fmt.Sprintf("%s: record %s on %s at %s has %d candidates [%s]",
		ErrAmbiguousPairing, e.RecordID, e.Well, e.Timestamp.Format(time.RFC3339),
		len(e.Candidates), strings.Join(e.Candidates, ", "))
}

func (e *AmbiguousPairingError) Unwrap() error { return ErrAmbiguousPairing }
