package logging

import "go.uber.org/zap/zapcore"

// Config controls where log entries go and how much is emitted.
type Config struct {
	// Level is the minimum level (debug, info, warn, error).
	Level string

	// File is an optional path for a rotated JSON log file.
	// Empty disables the file sink.
	File string

	// NoConsole suppresses the stderr core. Set while an interactive
	// progress view owns the terminal.
	NoConsole bool

	// MaxSizeMB is the file size that triggers rotation.
	MaxSizeMB int

	// MaxBackups is how many rotated files to retain.
	MaxBackups int

	// MaxAgeDays is how long rotated files are kept.
	MaxAgeDays int
}

func (c *Config) applyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.MaxSizeMB <= 0 {
		c.MaxSizeMB = 20
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = 5
	}
	if c.MaxAgeDays <= 0 {
		c.MaxAgeDays = 14
	}
}

func (c Config) zapLevel() zapcore.Level {
	switch c.Level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
