package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/soupbench/trawler/pkg/config"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.LoggingConfig
		level  zapcore.Level
		logged bool
	}{
		{"json info", config.LoggingConfig{Level: "INFO", Format: "json"}, zapcore.InfoLevel, true},
		{"text debug", config.LoggingConfig{Level: "DEBUG", Format: "text"}, zapcore.DebugLevel, true},
		{"bad level falls back to info", config.LoggingConfig{Level: "noise", Format: "json"}, zapcore.InfoLevel, true},
		{"warn suppresses info", config.LoggingConfig{Level: "WARN", Format: "json"}, zapcore.InfoLevel, false},
	}

	oldLogger := Logger
	defer func() { Logger = oldLogger }()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := InitLogger(&tt.cfg); err != nil {
				t.Fatalf("InitLogger failed: %v", err)
			}
			if got := GetLogger().Core().Enabled(tt.level); got != tt.logged {
				t.Errorf("Enabled(%v) = %v, want %v", tt.level, got, tt.logged)
			}
		})
	}
}

func TestWithComponent(t *testing.T) {
	oldLogger := Logger
	defer func() { Logger = oldLogger }()
	Logger = nil

	if WithComponent("driver") == nil {
		t.Fatal("WithComponent returned nil logger")
	}
}
