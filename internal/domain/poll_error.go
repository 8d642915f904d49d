package domain

import "time"

// PollErrorKind classifies why a poll failed.
type PollErrorKind string

const (
	// ToolNotFound means the nvidia-smi executable is missing.
	ToolNotFound PollErrorKind = "tool_not_found"

	// ToolTimeout means the tool did not finish within the deadline
	// and was terminated.
	ToolTimeout PollErrorKind = "tool_timeout"

	// ToolNonZeroExit means the tool ran but exited with a failure.
	ToolNonZeroExit PollErrorKind = "tool_nonzero_exit"

	// ParseFailure means the tool produced output but no line of it
	// parsed into a device record.
	ParseFailure PollErrorKind = "parse_failure"
)

// PollError is the failure outcome of a single poll, delivered to
// subscribers as data. It never escapes the poller as a panic or a
// returned error to the presentation layer.
type PollError struct {
	Kind PollErrorKind `json:"kind"`

	// RawOutput preserves whatever text the tool produced (may be
	// empty), for diagnostic display.
	RawOutput string `json:"raw_output,omitempty"`

	// Message is a human-readable detail line.
	Message string `json:"message"`

	// Timestamp is when the failing poll completed.
	Timestamp time.Time `json:"timestamp"`
}

// Error implements the error interface.
func (e *PollError) Error() string {
	return string(e.Kind) + ": " + e.Message
}
