package env

import (
	"github.com/cuemby/hacfg/pkg/cib"
	"github.com/cuemby/hacfg/pkg/reports"
)

// Wait is the policy of waiting for the cluster to settle after a push
type Wait struct {
	Enabled bool
	// Timeout is a pacemaker time value (60, 2min, ...). Empty leaves the
	// bound to pacemaker.
	Timeout string
}

// NoWait does not wait after pushing
var NoWait = Wait{}

// WaitFor waits with a timeout
func WaitFor(timeout string) Wait {
	return Wait{Enabled: true, Timeout: timeout}
}

// seconds returns the timeout in seconds, 0 when none was given
func (w Wait) seconds() (int, error) {
	if w.Timeout == "" {
		return 0, nil
	}
	seconds, ok := cib.TimeoutToSeconds(w.Timeout)
	if !ok || seconds <= 0 {
		return 0, reports.NewLibraryError(reports.NewInvalidTimeoutValue(w.Timeout))
	}
	return seconds, nil
}
