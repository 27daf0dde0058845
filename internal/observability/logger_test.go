package observability

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name   string
		config LoggingConfig
	}{
		{
			name: "json format",
			config: LoggingConfig{
				Level:  "info",
				Format: "json",
			},
		},
		{
			name: "text format",
			config: LoggingConfig{
				Level:  "debug",
				Format: "text",
			},
		},
		{
			name: "default format",
			config: LoggingConfig{
				Level:  "warn",
				Format: "",
			},
		},
		{
			name: "discard output",
			config: LoggingConfig{
				Level:  "error",
				Format: "json",
				Output: "discard",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(tt.config)
			if logger == nil {
				t.Fatal("NewLogger returned nil")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := parseLevel(tt.level); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestLoggerOutput(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	logger.Info("ring drained", "used", 0)

	output := buf.String()
	if !strings.Contains(output, "ring drained") {
		t.Errorf("Log output should contain 'ring drained', got: %s", output)
	}
	if !strings.Contains(output, "used=0") {
		t.Errorf("Log output should contain 'used=0', got: %s", output)
	}
}
