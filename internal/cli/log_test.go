package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("selected", "stars", 4) }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("projected") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("projected") }, true},
		{"warn at info level", log.InfoLevel, func(l *log.Logger) { l.Warn("layout did not converge") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v (%q)", got, tt.wantLog, buf.String())
			}
		})
	}
}

func TestCLISetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)

	c.Logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug output at info level: %q", buf.String())
	}

	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown", "stars", 3)
	out := buf.String()
	if !strings.Contains(out, "stars=3") {
		t.Errorf("expected structured debug output, got %q", out)
	}
	if !strings.Contains(out, "log_test.go") {
		t.Errorf("expected caller in debug output, got %q", out)
	}
}
