package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cuemby/hacfg/pkg/log"
)

// Result is the outcome of one finished command
type Result struct {
	Stdout     string
	Stderr     string
	ReturnCode int
	Duration   time.Duration
}

// Runner runs one external command given as an argument vector
type Runner interface {
	// Run executes args with stdin fed to the process. A non-zero exit is
	// not an error, it is reported through Result.ReturnCode. The error is
	// set only when the command could not be run at all.
	Run(ctx context.Context, args []string, stdin string) (Result, error)
}

// ExecRunner runs commands on the local host
type ExecRunner struct {
	// Env is added to the environment of every command
	Env map[string]string

	// Timeout bounds a single command, zero means no bound
	Timeout time.Duration

	logger zerolog.Logger
}

// NewExecRunner creates a runner adding env to the process environment
func NewExecRunner(env map[string]string) *ExecRunner {
	return &ExecRunner{
		Env:    env,
		logger: log.WithComponent("runner"),
	}
}

// WithTimeout sets the per command timeout
func (r *ExecRunner) WithTimeout(timeout time.Duration) *ExecRunner {
	r.Timeout = timeout
	return r
}

// Run implements Runner
func (r *ExecRunner) Run(ctx context.Context, args []string, stdin string) (Result, error) {
	if len(args) == 0 {
		return Result{}, errors.New("no command specified")
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Env = append(os.Environ(), r.environ()...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug().
		Strs("args", args).
		Str("stdin", stdin).
		Msg("Running command")

	start := time.Now()
	err := cmd.Run()
	result := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		result.ReturnCode = exitErr.ExitCode()
	default:
		return result, fmt.Errorf("failed to run %s: %w", args[0], err)
	}

	r.logger.Debug().
		Strs("args", args).
		Int("rc", result.ReturnCode).
		Str("stdout", result.Stdout).
		Str("stderr", result.Stderr).
		Dur("duration", result.Duration).
		Msg("Finished running command")

	return result, nil
}

func (r *ExecRunner) environ() []string {
	keys := make([]string, 0, len(r.Env))
	for k := range r.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+r.Env[k])
	}
	return env
}

// JoinOutput merges stdout and stderr the way error reports show them
func (r Result) JoinOutput() string {
	return strings.TrimSpace(strings.Join([]string{
		strings.TrimSpace(r.Stderr),
		strings.TrimSpace(r.Stdout),
	}, "\n"))
}
