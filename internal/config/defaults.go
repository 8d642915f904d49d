package config

import "time"

// Default configuration values for both binaries
const (
	// Polling defaults
	DefaultCommand        = "nvidia-smi"
	DefaultPollInterval   = 5 * time.Second
	DefaultCommandTimeout = 5 * time.Second

	// Daemon HTTP server defaults
	DefaultAPIHost         = "0.0.0.0"
	DefaultAPIPort         = 8080
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// DefaultProbeMaxElapsed bounds the daemon's startup wait for a
	// runnable nvidia-smi before giving up.
	DefaultProbeMaxElapsed = 2 * time.Minute
)
