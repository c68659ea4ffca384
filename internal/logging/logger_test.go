package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLogger_UsesJSONAndLevel(t *testing.T) {
	var buf bytes.Buffer
	lg := NewLogger(Options{Level: "debug", Writer: &buf, Component: "remotectl"})
	lg.Debug("boot", "k", "v")

	out := strings.TrimSpace(buf.String())
	if !strings.Contains(out, `"level":"DEBUG"`) {
		t.Fatalf("expected DEBUG level, got %s", out)
	}
	if !strings.Contains(out, `"component":"remotectl"`) {
		t.Fatalf("expected component field, got %s", out)
	}
}

func TestNewLogger_TextFormatAndFiltering(t *testing.T) {
	var buf bytes.Buffer
	lg := NewLogger(Options{Level: "warn", Format: "text", Writer: &buf})
	lg.Info("hidden")
	lg.Warn("shown", "action_id", "abc")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info should be filtered at warn level, got %s", out)
	}
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "action_id=abc") {
		t.Fatalf("expected text output, got %s", out)
	}
}
