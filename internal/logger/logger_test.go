package logger

import "testing"

func TestNew(t *testing.T) {
	for _, level := range []string{"", "debug", "info", "warn", "error"} {
		if _, err := New(level); err != nil {
			t.Errorf("New(%q) returned error: %v", level, err)
		}
	}
	if _, err := New("loud"); err == nil {
		t.Errorf("New(%q) expected an error", "loud")
	}
}
