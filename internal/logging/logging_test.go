package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	l, err := New(false, "warn")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !l.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("error should be enabled")
	}

	if _, err := New(true, "debug"); err != nil {
		t.Errorf("dev logger: %v", err)
	}
	if _, err := New(false, "loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}
