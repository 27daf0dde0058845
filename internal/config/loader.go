// Package config loads and validates application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/jittakal/bytering/internal/config/dto"
)

// Loader handles configuration loading and validation
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// Load loads configuration from file and environment variables. A
// missing file is not an error; defaults and environment variables
// still apply.
func (l *Loader) Load(path string) (*dto.ApplicationConfig, error) {
	l.setDefaults()

	if path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var config dto.ApplicationConfig
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func (l *Loader) setDefaults() {
	// Application defaults
	l.v.SetDefault("application.name", "bytering-relay")
	l.v.SetDefault("application.version", "1.0.0")
	l.v.SetDefault("application.environment", "development")

	// Ring defaults
	l.v.SetDefault("ring.capacity_bytes", 64*1024)

	// Relay defaults
	l.v.SetDefault("relay.input", "-")
	l.v.SetDefault("relay.output", "-")
	l.v.SetDefault("relay.chunk_bytes", 4096)
	l.v.SetDefault("relay.mode", dto.ModeBlocking)
	l.v.SetDefault("relay.drain_poll_ms", 10)

	// Observability defaults
	l.v.SetDefault("observability.logging.level", "info")
	l.v.SetDefault("observability.logging.format", "json")
	l.v.SetDefault("observability.logging.output", "stderr")
	l.v.SetDefault("observability.health.port", 8080)
	l.v.SetDefault("observability.metrics.port", 9090)

	// Shutdown defaults
	l.v.SetDefault("shutdown.grace_period_seconds", 5)
}
