// Package nvsmi invokes the nvidia-smi command-line tool and classifies
// its failures. One external process is spawned per call; no persistent
// child is kept.
package nvsmi

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// DefaultCommand is the executable name used when none is configured.
const DefaultCommand = "nvidia-smi"

// DefaultTimeout bounds a single tool invocation.
const DefaultTimeout = 5 * time.Second

// queryFields is the fixed field list requested from nvidia-smi, in the
// order the parser expects them.
var queryFields = []string{
	"index",
	"name",
	"temperature.gpu",
	"utilization.gpu",
	"memory.used",
	"memory.total",
	"power.draw",
}

// RunErrorKind classifies a failed invocation.
type RunErrorKind string

const (
	// KindNotFound means the executable could not be started.
	KindNotFound RunErrorKind = "not_found"

	// KindTimeout means the deadline elapsed and the child process
	// was killed.
	KindTimeout RunErrorKind = "timeout"

	// KindNonZeroExit means the tool ran and exited with a failure.
	KindNonZeroExit RunErrorKind = "nonzero_exit"
)

// RunError is returned when an invocation fails.
type RunError struct {
	Kind RunErrorKind

	// Output is the captured stdout and stderr, preserved for
	// diagnostic display. May be empty.
	Output string

	// Err is the underlying exec error.
	Err error
}

// Error implements the error interface.
func (e *RunError) Error() string {
	return "nvidia-smi " + string(e.Kind) + ": " + e.Err.Error()
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *RunError) Unwrap() error {
	return e.Err
}

// CommandRunner abstracts tool invocation so the poller can be tested
// without the real binary.
type CommandRunner interface {
	// QueryMetrics runs the CSV query mode and returns its stdout.
	QueryMetrics(ctx context.Context) (string, error)

	// FullReport runs the tool without arguments and returns the
	// human-readable status table.
	FullReport(ctx context.Context) (string, error)

	// Version probes tool availability via --version.
	Version(ctx context.Context) (string, error)
}

// Runner invokes a configurable nvidia-smi binary with a per-call
// timeout. Safe for concurrent use; each call spawns its own process.
type Runner struct {
	command string
	timeout time.Duration
	logger  *slog.Logger
}

// NewRunner creates a Runner. Empty command and zero timeout fall back
// to the defaults.
func NewRunner(command string, timeout time.Duration, logger *slog.Logger) *Runner {
	if command == "" {
		command = DefaultCommand
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		command: command,
		timeout: timeout,
		logger:  logger.With("component", "runner", "command", command),
	}
}

// QueryMetrics requests unit-less, header-free CSV output for the seven
// metric fields. The argument list is an external contract with
// nvidia-smi's documented query mode.
func (r *Runner) QueryMetrics(ctx context.Context) (string, error) {
	return r.run(ctx,
		"--query-gpu="+strings.Join(queryFields, ","),
		"--format=csv,noheader,nounits",
	)
}

// FullReport returns the default nvidia-smi status table.
func (r *Runner) FullReport(ctx context.Context) (string, error) {
	return r.run(ctx)
}

// Version returns the tool's version banner. A nil error means the
// tool is installed and runnable.
func (r *Runner) Version(ctx context.Context) (string, error) {
	return r.run(ctx, "--version")
}

// run spawns one process, waits for it under the configured timeout,
// and classifies any failure. The deadline check comes before the exit
// status check: a process killed by the deadline also reports a
// non-zero exit, and the timeout classification must win.
func (r *Runner) run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	if err == nil {
		r.logger.Debug("tool invocation complete",
			"args", args,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return stdout.String(), nil
	}

	output := stdout.String() + stderr.String()

	kind := KindNotFound
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		kind = KindTimeout
	case errors.Is(err, exec.ErrNotFound):
		kind = KindNotFound
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			kind = KindNonZeroExit
		}
	}

	r.logger.Warn("tool invocation failed",
		"args", args,
		"kind", string(kind),
		"error", err,
	)

	return "", &RunError{Kind: kind, Output: output, Err: err}
}
