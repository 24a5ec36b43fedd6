package util

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Fatalf("Clamp(5,0,3) = %d", got)
	}
	if got := Clamp(-1, 0, 3); got != 0 {
		t.Fatalf("Clamp(-1,0,3) = %d", got)
	}
	if got := Clamp(2, 0, 3); got != 2 {
		t.Fatalf("Clamp(2,0,3) = %d", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10, "..."); got != "short" {
		t.Fatalf("Truncate kept = %q", got)
	}
	got := Truncate("copy [/local](/a/very/long/path)", 12, "...")
	if len(got) > 12 || !strings.HasSuffix(got, "...") {
		t.Fatalf("Truncate cut = %q", got)
	}
	if got := Truncate("anything", 0, "..."); got != "" {
		t.Fatalf("Truncate zero width = %q", got)
	}
}

func TestSingleLine(t *testing.T) {
	if got := SingleLine("a\r\nb"); got != "a  b" {
		t.Fatalf("SingleLine = %q", got)
	}
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, false)

	LogError(logger, "refresh", nil)
	if buf.Len() != 0 {
		t.Fatalf("nil error should not log, got %q", buf.String())
	}
	LogError(logger, "refresh", errors.New("boom"))
	if !strings.Contains(buf.String(), "refresh") || !strings.Contains(buf.String(), "boom") {
		t.Fatalf("unexpected log output %q", buf.String())
	}
}

func TestNewLoggerDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, false).Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug should be filtered at info level")
	}
	NewLogger(&buf, true).Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("debug should be logged when enabled, got %q", buf.String())
	}
}

func TestClampFloat(t *testing.T) {
	if got := Clamp(1.5, 0, 1); got != 1 {
		t.Fatalf("Clamp(1.5,0,1) = %v", got)
	}
}
