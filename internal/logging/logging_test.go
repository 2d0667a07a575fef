package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.applyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected Level 'info', got '%s'", cfg.Level)
	}
	if cfg.MaxSizeMB != 20 {
		t.Errorf("expected MaxSizeMB 20, got %d", cfg.MaxSizeMB)
	}
	if cfg.MaxBackups != 5 {
		t.Errorf("expected MaxBackups 5, got %d", cfg.MaxBackups)
	}
	if cfg.MaxAgeDays != 14 {
		t.Errorf("expected MaxAgeDays 14, got %d", cfg.MaxAgeDays)
	}
}

func TestConfigZapLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"unknown", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := Config{Level: tt.level}
			if got := cfg.zapLevel(); got != tt.expected {
				t.Errorf("zapLevel() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNewWithFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "imgopt.log")
	logger := New(Config{File: path, NoConsole: true})
	if logger == nil {
		t.Fatal("New returned nil")
	}

	logger.Info("file sink test", zap.String("key", "value"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "file sink test") {
		t.Errorf("log file missing entry, got: %s", data)
	}
}

func TestLoggerWithAndNamed(t *testing.T) {
	logger := New(Config{NoConsole: true})

	child := logger.With(zap.String("component", "test"))
	if child == nil {
		t.Fatal("With returned nil")
	}
	if child == logger {
		t.Error("With should return a new logger instance")
	}

	named := logger.Named("batch")
	if named == nil {
		t.Fatal("Named returned nil")
	}
}

func TestNopLogger(t *testing.T) {
	logger := Nop()

	// These should not panic.
	logger.Debug("debug message")
	logger.Infof("info %d", 42)
	logger.Warnf("warn %v", true)
	logger.Errorf("error %s", "test")

	if err := logger.Sync(); err != nil {
		t.Errorf("Sync failed: %v", err)
	}
}
