package utils

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fatih/color"
)

func TestLoggerLevels(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name     string
		verbose  bool
		log      func(l *Logger)
		expected string
	}{
		{
			name:     "success",
			log:      func(l *Logger) { l.Success("loaded %d specs", 3) },
			expected: "✓ loaded 3 specs\n",
		},
		{
			name:     "warning",
			log:      func(l *Logger) { l.Warning("slow") },
			expected: "⚠ slow\n",
		},
		{
			name:     "error with cause",
			log:      func(l *Logger) { l.Error("load failed", errors.New("boom")) },
			expected: "✗ load failed: boom\n",
		},
		{
			name:     "debug hidden",
			log:      func(l *Logger) { l.Debug("dispatch %s", "cpu") },
			expected: "",
		},
		{
			name:     "debug verbose",
			verbose:  true,
			log:      func(l *Logger) { l.Debug("dispatch %s", "cpu") },
			expected: "dispatch cpu\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewLoggerTo(&buf, tt.verbose))
			if buf.String() != tt.expected {
				t.Errorf("output = %q, expected %q", buf.String(), tt.expected)
			}
		})
	}
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	l.Info("ignored")
	l.Debug("ignored")
	l.Error("ignored", nil)
	if l.Verbose() {
		t.Error("nil logger should not be verbose")
	}
}
