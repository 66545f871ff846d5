package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level, format string
		wantErr       bool
		enabled       zapcore.Level
		disabled      zapcore.Level
	}{
		{"debug", "console", false, zapcore.DebugLevel, zapcore.InvalidLevel},
		{"INFO", "json", false, zapcore.InfoLevel, zapcore.DebugLevel},
		{"warn", "", false, zapcore.WarnLevel, zapcore.InfoLevel},
		{"error", "json", false, zapcore.ErrorLevel, zapcore.WarnLevel},
		{"verbose", "json", true, 0, 0},
		{"info", "xml", true, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.format, func(t *testing.T) {
			logger, err := New(tt.level, tt.format)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if !logger.Core().Enabled(tt.enabled) {
				t.Fatalf("level %v should be enabled", tt.enabled)
			}
			if tt.disabled != zapcore.InvalidLevel && logger.Core().Enabled(tt.disabled) {
				t.Fatalf("level %v should be disabled", tt.disabled)
			}
		})
	}
}
