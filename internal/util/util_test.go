package util

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestTruncateForLog(t *testing.T) {
	if got := TruncateForLog("  hello  ", 10); got != "hello" {
		t.Fatalf("expected trimmed string, got %q", got)
	}

	if got := TruncateForLog("hello world", 5); got != "hello..." {
		t.Fatalf("expected truncated string with ellipsis, got %q", got)
	}

	if got := TruncateForLog("hello", 0); got != "" {
		t.Fatalf("expected empty string for zero limit, got %q", got)
	}

	long := strings.Repeat("я", 20)
	if got := TruncateForLog(long, 10); got != strings.Repeat("я", 10)+"..." {
		t.Fatalf("expected rune-aware truncation, got %q", got)
	}
}

func TestWaitForCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := WaitFor(ctx, time.Hour); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestWaitForZeroDuration(t *testing.T) {
	if err := WaitFor(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
