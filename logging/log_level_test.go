package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLogLevelString(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{" INFO ", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"Warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.WarnLevel},
		{"verbose", zapcore.WarnLevel},
	}

	for _, tt := range tests {
		if got := ParseLogLevelString(tt.in, zapcore.WarnLevel); got != tt.want {
			t.Errorf("ParseLogLevelString(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseLogLevel_Env(t *testing.T) {
	t.Setenv("BGCLEAR_TEST_LEVEL", "error")
	if got := ParseLogLevel("BGCLEAR_TEST_LEVEL", zapcore.InfoLevel); got != zapcore.ErrorLevel {
		t.Errorf("ParseLogLevel() = %v, want error", got)
	}

	t.Setenv("BGCLEAR_TEST_LEVEL", "")
	if got := ParseLogLevel("BGCLEAR_TEST_LEVEL", zapcore.InfoLevel); got != zapcore.InfoLevel {
		t.Errorf("ParseLogLevel(unset) = %v, want info", got)
	}
}
