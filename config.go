package doctext

import (
	"fmt"
	"log/slog"
	"strings"
)

// Config holds all configuration for an Extractor.
type Config struct {
	// PDFPassword unlocks encrypted PDFs (user or owner password).
	// Leave empty for unencrypted documents.
	PDFPassword string `json:"pdf_password" yaml:"pdf_password" mapstructure:"pdf_password"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
	}
}

// Validate reports configuration values the extractor cannot use.
func (c Config) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps LogLevel to a slog.Level. An empty LogLevel means info.
func (c Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.LogLevel)
	}
}
