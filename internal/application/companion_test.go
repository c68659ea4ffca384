package application

import (
	"bytes"
	"context"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestRunShell_RunsCommandThroughShell(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh syntax")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var out bytes.Buffer
	if err := runShell(ctx, "echo companion && echo $((1+2))", &out); err != nil {
		t.Fatalf("runShell failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "companion\n3" {
		t.Fatalf("unexpected output %q", got)
	}
	if err := runShell(ctx, "exit 3", &out); err == nil {
		t.Fatal("expected exit status error")
	}
}

func TestRunShell_StopsWithContext(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh syntax")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	if err := runShell(ctx, "exec sleep 30", &bytes.Buffer{}); err == nil {
		t.Fatal("expected cancelled command to fail")
	}
	if time.Since(start) > 10*time.Second {
		t.Fatal("command outlived its context")
	}
}
