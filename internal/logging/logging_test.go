package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	for _, tc := range []struct {
		level string
		json  bool
		want  zapcore.Level
	}{
		{"debug", false, zapcore.DebugLevel},
		{"info", true, zapcore.InfoLevel},
		{"WARN", true, zapcore.WarnLevel},
	} {
		logger, err := New(tc.level, tc.json)
		if err != nil {
			t.Fatalf("New(%q) error = %v", tc.level, err)
		}
		if !logger.Core().Enabled(tc.want) {
			t.Fatalf("New(%q) does not enable %v", tc.level, tc.want)
		}
		if tc.want > zapcore.DebugLevel && logger.Core().Enabled(tc.want-1) {
			t.Fatalf("New(%q) enables %v", tc.level, tc.want-1)
		}
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("chatty", true); err == nil {
		t.Fatalf("New() error = nil, want error")
	}
}
