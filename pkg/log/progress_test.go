package log

import (
	"context"
	"log/slog"
	"strings"
	"testing"
)

// captureLogger records debug lines for assertions.
type captureLogger struct {
	lines []string
}

func (c *captureLogger) Debug(msg string, fields ...any) { c.lines = append(c.lines, msg) }
func (c *captureLogger) Info(msg string, fields ...any)  { c.lines = append(c.lines, msg) }
func (c *captureLogger) Warn(msg string, fields ...any)  {}
func (c *captureLogger) Error(msg string, fields ...any) {}
func (c *captureLogger) With(fields ...any) Logger       { return c }
func (c *captureLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

func TestProgress_Indentation(t *testing.T) {
	capture := &captureLogger{}
	prog := NewProgress(capture)

	prog.Printf("training tree %d", 1)
	child := prog.Indent()
	child.Printf("split at depth %d", 0)
	child.Indent().Printf("leaf")

	if len(capture.lines) != 3 {
		t.Fatalf("captured %d lines, want 3", len(capture.lines))
	}
	if capture.lines[0] != "training tree 1" {
		t.Errorf("root line = %q", capture.lines[0])
	}
	if !strings.HasPrefix(capture.lines[1], "  split") {
		t.Errorf("indented line = %q, want two-space prefix", capture.lines[1])
	}
	if !strings.HasPrefix(capture.lines[2], "    leaf") {
		t.Errorf("doubly indented line = %q, want four-space prefix", capture.lines[2])
	}

	// Indent never mutates the receiver.
	prog.Printf("after")
	if got := capture.lines[3]; got != "after" {
		t.Errorf("root line after Indent = %q", got)
	}
}

func TestNewProgress_NilLogger(t *testing.T) {
	prog := NewProgress(nil)
	prog.Printf("must not panic")
	prog.Indent().Printf("nested")
}

func TestNopProgress(t *testing.T) {
	prog := NopProgress()
	prog.Printf("discarded %d", 1)
	prog.Indent().Printf("also discarded")
}

func TestToLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, want := range cases {
		if got := ToLogLevel(name); got != want {
			t.Errorf("ToLogLevel(%q) = %v, want %v", name, got, want)
		}
	}

	defer func() {
		if recover() == nil {
			t.Error("unknown level did not panic")
		}
	}()
	ToLogLevel("verbose")
}
