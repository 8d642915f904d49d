package domain

import "errors"

// Domain-level errors
var (
	ErrNoValidRecords  = errors.New("no valid records in tool output")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidInterval = errors.New("interval out of range")
	ErrAlreadyRunning  = errors.New("poller already running")
	ErrNotRunning      = errors.New("poller not running")
	ErrNoSnapshot      = errors.New("no snapshot available")
	ErrDeviceNotFound  = errors.New("device not found")
)
