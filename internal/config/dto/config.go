package dto

import (
	"fmt"
)

// Relay transfer modes.
const (
	ModeBlocking = "blocking"
	ModeLossy    = "lossy"
)

// ApplicationConfig is the root configuration structure
type ApplicationConfig struct {
	Application   ApplicationInfo     `mapstructure:"application"`
	Ring          RingConfig          `mapstructure:"ring"`
	Relay         RelayConfig         `mapstructure:"relay"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Shutdown      ShutdownConfig      `mapstructure:"shutdown"`
}

// ApplicationInfo contains application metadata
type ApplicationInfo struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// RingConfig contains ring buffer configuration
type RingConfig struct {
	CapacityBytes int `mapstructure:"capacity_bytes"`
}

// RelayConfig contains relay pump configuration
type RelayConfig struct {
	// Input and Output name the endpoints to pump between. "-" selects
	// stdin/stdout; anything else is treated as a filesystem path (for
	// example a named pipe).
	Input  string `mapstructure:"input"`
	Output string `mapstructure:"output"`

	// ChunkBytes is the transfer unit on both sides of the ring.
	ChunkBytes int `mapstructure:"chunk_bytes"`

	// Mode selects blocking writes (backpressure) or lossy writes
	// (drop chunks when the ring is full).
	Mode string `mapstructure:"mode"`

	// DrainPollMS is the poll interval used while waiting for the ring
	// to empty during shutdown.
	DrainPollMS int `mapstructure:"drain_poll_ms"`
}

// ObservabilityConfig contains observability configuration
type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Health  HealthConfig  `mapstructure:"health"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// HealthConfig contains health check endpoint configuration
type HealthConfig struct {
	Port int `mapstructure:"port"`
}

// MetricsConfig contains metrics endpoint configuration
type MetricsConfig struct {
	Port int `mapstructure:"port"`
}

// ShutdownConfig contains graceful shutdown configuration
type ShutdownConfig struct {
	GracePeriodSeconds int `mapstructure:"grace_period_seconds"`
}

// Validate checks the configuration for invalid values.
func (c *ApplicationConfig) Validate() error {
	if c.Ring.CapacityBytes <= 0 {
		return fmt.Errorf("ring.capacity_bytes must be positive, got %d", c.Ring.CapacityBytes)
	}
	if c.Relay.ChunkBytes <= 0 {
		return fmt.Errorf("relay.chunk_bytes must be positive, got %d", c.Relay.ChunkBytes)
	}
	if c.Relay.ChunkBytes > c.Ring.CapacityBytes {
		return fmt.Errorf("relay.chunk_bytes (%d) must not exceed ring.capacity_bytes (%d)",
			c.Relay.ChunkBytes, c.Ring.CapacityBytes)
	}
	if c.Relay.Mode != ModeBlocking && c.Relay.Mode != ModeLossy {
		return fmt.Errorf("relay.mode must be %q or %q, got %q", ModeBlocking, ModeLossy, c.Relay.Mode)
	}
	if c.Relay.DrainPollMS <= 0 {
		return fmt.Errorf("relay.drain_poll_ms must be positive, got %d", c.Relay.DrainPollMS)
	}
	if c.Observability.Health.Port <= 0 || c.Observability.Health.Port > 65535 {
		return fmt.Errorf("observability.health.port out of range: %d", c.Observability.Health.Port)
	}
	if c.Observability.Metrics.Port <= 0 || c.Observability.Metrics.Port > 65535 {
		return fmt.Errorf("observability.metrics.port out of range: %d", c.Observability.Metrics.Port)
	}
	if c.Observability.Health.Port == c.Observability.Metrics.Port {
		return fmt.Errorf("health and metrics ports must differ, both are %d", c.Observability.Health.Port)
	}
	return nil
}
