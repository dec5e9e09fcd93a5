package app

import (
	"testing"
)

// TestDetermineLogLevel tests the log level precedence logic.
func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{
			name:     "default level when no flags set",
			config:   &Config{},
			expected: "warn",
		},
		{
			name:     "verbose flag sets debug",
			config:   &Config{Verbose: true},
			expected: "debug",
		},
		{
			name:     "quiet flag sets error",
			config:   &Config{Quiet: true},
			expected: "error",
		},
		{
			name:     "explicit log-level overrides verbose",
			config:   &Config{LogLevel: "error", Verbose: true},
			expected: "error",
		},
		{
			name:     "explicit log-level overrides quiet",
			config:   &Config{LogLevel: "trace", Quiet: true},
			expected: "trace",
		},
		{
			name:     "quiet wins over verbose",
			config:   &Config{Verbose: true, Quiet: true},
			expected: "error",
		},
		{
			name:     "invalid log-level falls back",
			config:   &Config{LogLevel: "loud"},
			expected: "warn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := determineLogLevel(tt.config); got != tt.expected {
				t.Errorf("determineLogLevel() = %s, want %s", got, tt.expected)
			}
		})
	}
}

// TestNewLogger verifies the logger honours the configured level.
func TestNewLogger(t *testing.T) {
	logger := NewLogger(&Config{Verbose: true, LogFormat: "json", LogOutput: "discard"})
	if logger.GetLevel().String() != "debug" {
		t.Errorf("level = %s, want debug", logger.GetLevel())
	}
}
