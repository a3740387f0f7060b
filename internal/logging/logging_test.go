package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestFromFlags(t *testing.T) {
	tests := []struct {
		name           string
		verbose, quiet bool
		want           Level
	}{
		{"default", false, false, LevelInfo},
		{"verbose", true, false, LevelDebug},
		{"quiet", false, true, LevelError},
		{"quiet wins", true, true, LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromFlags(tt.verbose, tt.quiet).level; got != tt.want {
				t.Errorf("level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn)
	l.SetOutput(&buf)

	l.Debug("debug line")
	l.Info("info line")
	l.Warn("warn line")
	l.Error("error line")

	out := buf.String()
	if strings.Contains(out, "debug line") || strings.Contains(out, "info line") {
		t.Errorf("low-severity lines leaked:\n%s", out)
	}
	if !strings.Contains(out, "warn line") || !strings.Contains(out, "error line") {
		t.Errorf("high-severity lines missing:\n%s", out)
	}
}

func TestDiscard(t *testing.T) {
	var buf bytes.Buffer
	l := Discard()
	l.SetOutput(&buf)

	l.Error("should not appear")
	if buf.Len() != 0 {
		t.Errorf("discard logger wrote %q", buf.String())
	}
}
