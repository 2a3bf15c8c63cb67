package logger

import "testing"

func TestInit_Levels(t *testing.T) {
	for _, level := range []string{"Debug", "Info", "Warn", "Error", "info"} {
		l := New()
		if err := l.Init(level); err != nil {
			t.Errorf("Init(%q) failed: %v", level, err)
		}
		if l.Log == nil {
			t.Errorf("Init(%q) left Log nil", level)
		}
	}
}

func TestInit_InvalidLevel(t *testing.T) {
	l := New()
	if err := l.Init("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNew_UsableBeforeInit(t *testing.T) {
	l := New()
	// Must not panic.
	l.Log.Info("message before init")
}
