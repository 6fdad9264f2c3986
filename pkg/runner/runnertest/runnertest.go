// Package runnertest provides a scripted runner.Runner for tests.
package runnertest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cuemby/hacfg/pkg/runner"
)

// Call is one expected command with its canned result
type Call struct {
	Args   []string
	Stdin  string
	Result runner.Result
	Err    error
}

// Runner replays Calls in order and fails on anything unexpected
type Runner struct {
	mu       sync.Mutex
	expected []Call
	received [][]string
	stdins   []string
}

// New creates a runner expecting calls in order
func New(calls ...Call) *Runner {
	return &Runner{expected: calls}
}

// Run implements runner.Runner
func (r *Runner) Run(_ context.Context, args []string, stdin string) (runner.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.received = append(r.received, args)
	r.stdins = append(r.stdins, stdin)
	idx := len(r.received) - 1
	if idx >= len(r.expected) {
		return runner.Result{}, fmt.Errorf("unexpected command: %s", strings.Join(args, " "))
	}
	call := r.expected[idx]
	if strings.Join(call.Args, " ") != strings.Join(args, " ") {
		return runner.Result{}, fmt.Errorf("command %d: expected %q, got %q",
			idx, strings.Join(call.Args, " "), strings.Join(args, " "))
	}
	return call.Result, call.Err
}

// Received returns the argument vectors run so far
func (r *Runner) Received() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.received...)
}

// Stdin returns what command idx was fed
func (r *Runner) Stdin(idx int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx >= len(r.stdins) {
		return ""
	}
	return r.stdins[idx]
}

// Done reports whether every expected call was made
func (r *Runner) Done() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.received) == len(r.expected)
}
