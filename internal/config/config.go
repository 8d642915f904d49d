// Package config loads runtime configuration from environment variables.
// The polling interval configured here only seeds the poller; the value
// remains runtime-settable through the control interface.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration
type Config struct {
	Poll   PollConfig
	Server ServerConfig
}

// PollConfig holds polling configuration
type PollConfig struct {
	Command  string
	Interval time.Duration
	Timeout  time.Duration
}

// ServerConfig holds daemon HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Poll: PollConfig{
			Command:  GetEnv("GPUMON_COMMAND", DefaultCommand),
			Interval: GetEnvDuration("GPUMON_INTERVAL", DefaultPollInterval),
			Timeout:  GetEnvDuration("GPUMON_TIMEOUT", DefaultCommandTimeout),
		},
		Server: ServerConfig{
			Host:         GetEnv("GPUMON_API_HOST", DefaultAPIHost),
			Port:         GetEnvInt("GPUMON_API_PORT", DefaultAPIPort),
			ReadTimeout:  GetEnvDuration("GPUMON_READ_TIMEOUT", DefaultReadTimeout),
			WriteTimeout: GetEnvDuration("GPUMON_WRITE_TIMEOUT", DefaultWriteTimeout),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Poll.Command == "" {
		return fmt.Errorf("poll command must not be empty")
	}
	if c.Poll.Timeout <= 0 {
		return fmt.Errorf("invalid command timeout: %s", c.Poll.Timeout)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	return nil
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt gets an environment variable as int or returns a default value
func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvDuration gets an environment variable as duration or returns a default value
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
