package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/raphi011/mr/internal/log"
)

func logCtx() context.Context {
	l := log.New(&bytes.Buffer{}, false, false)
	return log.WithLogger(context.Background(), l)
}

func TestRunContext_Success(t *testing.T) {
	t.Parallel()
	err := RunContext(logCtx(), "", "echo", "hello")
	if err != nil {
		t.Errorf("RunContext(echo hello) = %v, want nil", err)
	}
}

func TestRunContext_Failure(t *testing.T) {
	t.Parallel()
	err := RunContext(logCtx(), "", "sh", "-c", "exit 1")
	if err == nil {
		t.Error("RunContext(exit 1) = nil, want error")
	}
}

func TestRunContext_StderrMessage(t *testing.T) {
	t.Parallel()
	err := RunContext(logCtx(), "", "sh", "-c", "echo 'bad thing' >&2; exit 1")
	if err == nil {
		t.Fatal("RunContext = nil, want error")
	}
	if err.Error() != "bad thing" {
		t.Errorf("RunContext error = %q, want %q", err.Error(), "bad thing")
	}
}

func TestRunContext_ContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(logCtx())
	cancel()
	err := RunContext(ctx, "", "sleep", "10")
	if err == nil {
		t.Error("RunContext with cancelled context = nil, want error")
	}
	if err != context.Canceled {
		t.Errorf("RunContext error = %v, want context.Canceled", err)
	}
}

func TestRunContext_Dir(t *testing.T) {
	t.Parallel()
	// Verify command runs in specified directory
	err := RunContext(logCtx(), "/tmp", "pwd")
	if err != nil {
		t.Errorf("RunContext with dir = %v, want nil", err)
	}
}

func TestOutputContext_Success(t *testing.T) {
	t.Parallel()
	out, err := OutputContext(logCtx(), "", "echo", "hello")
	if err != nil {
		t.Fatalf("OutputContext(echo hello) = %v, want nil", err)
	}
	if got := string(out); got != "hello\n" {
		t.Errorf("OutputContext output = %q, want %q", got, "hello\n")
	}
}

func TestOutputContext_Failure(t *testing.T) {
	t.Parallel()
	_, err := OutputContext(logCtx(), "", "sh", "-c", "exit 1")
	if err == nil {
		t.Error("OutputContext(exit 1) = nil, want error")
	}
}

func TestOutputContext_StderrMessage(t *testing.T) {
	t.Parallel()
	_, err := OutputContext(logCtx(), "", "sh", "-c", "echo 'error msg' >&2; exit 1")
	if err == nil {
		t.Fatal("OutputContext = nil, want error")
	}
	if err.Error() != "error msg" {
		t.Errorf("OutputContext error = %q, want %q", err.Error(), "error msg")
	}
}

func TestOutputContext_ContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(logCtx())
	cancel()
	_, err := OutputContext(ctx, "", "sleep", "10")
	if err == nil {
		t.Error("OutputContext with cancelled context = nil, want error")
	}
	if err != context.Canceled {
		t.Errorf("OutputContext error = %v, want context.Canceled", err)
	}
}

func TestCaptureContext_ExitCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script string
		want   int
	}{
		{"success", "exit 0", 0},
		{"exit one", "exit 1", 1},
		{"exit 128", "exit 128", 128},
		{"stdout and stderr ignored", "echo out; echo err >&2; exit 3", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, _, err := CaptureContext(logCtx(), "", "sh", "-c", tt.script)
			if err != nil {
				t.Fatalf("CaptureContext(%q) error = %v", tt.script, err)
			}
			if got != tt.want {
				t.Errorf("CaptureContext(%q) = %d, want %d", tt.script, got, tt.want)
			}
		})
	}
}

func TestCaptureContext_NotFound(t *testing.T) {
	t.Parallel()
	code, _, err := CaptureContext(logCtx(), "", "mr-test-binary-that-does-not-exist")
	if err == nil {
		t.Fatal("CaptureContext(missing binary) = nil error, want error")
	}
	if code != -1 {
		t.Errorf("CaptureContext(missing binary) code = %d, want -1", code)
	}
}

func TestCaptureContext(t *testing.T) {
	t.Parallel()
	code, out, err := CaptureContext(logCtx(), "", "sh", "-c", "printf 'a\\nb'; exit 2")
	if err != nil {
		t.Fatalf("CaptureContext error = %v", err)
	}
	if code != 2 {
		t.Errorf("CaptureContext code = %d, want 2", code)
	}
	if string(out) != "a\nb" {
		t.Errorf("CaptureContext stdout = %q, want %q", out, "a\nb")
	}
}

func TestRunContext_VerboseTrace(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	ctx := log.WithLogger(context.Background(), log.New(&buf, true, false))
	if err := RunContext(ctx, "/tmp", "true"); err != nil {
		t.Fatalf("RunContext(true) = %v", err)
	}
	if got := buf.String(); !strings.Contains(got, "[/tmp] $ true") {
		t.Errorf("trace = %q, want to contain %q", got, "[/tmp] $ true")
	}
}

func TestAttachedContext(t *testing.T) {
	t.Parallel()
	var stdout, stderr bytes.Buffer
	s := Streams{Stdin: strings.NewReader("ping\n"), Stdout: &stdout, Stderr: &stderr}

	code, err := AttachedContext(logCtx(), "", s, "sh", "-c", "read x; echo got $x; echo oops >&2; exit 3")
	if err != nil {
		t.Fatalf("AttachedContext error = %v", err)
	}
	if code != 3 {
		t.Errorf("AttachedContext code = %d, want 3", code)
	}
	if stdout.String() != "got ping\n" {
		t.Errorf("stdout = %q", stdout.String())
	}
	if stderr.String() != "oops\n" {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestAttachedContext_NotFound(t *testing.T) {
	t.Parallel()
	code, err := AttachedContext(logCtx(), "", Streams{}, "nonexistent-binary-mr-test")
	if err == nil || code != -1 {
		t.Errorf("AttachedContext(missing binary) = (%d, %v), want (-1, error)", code, err)
	}
}

func TestCombinedContext(t *testing.T) {
	t.Parallel()
	code, stdout, stderr, err := CombinedContext(logCtx(), "", "sh", "-c", "echo out; echo err >&2; exit 1")
	if err != nil {
		t.Fatalf("CombinedContext error = %v", err)
	}
	if code != 1 || string(stdout) != "out\n" || string(stderr) != "err\n" {
		t.Errorf("CombinedContext = (%d, %q, %q)", code, stdout, stderr)
	}
}

func TestCombinedContext_StdinClosed(t *testing.T) {
	t.Parallel()
	// read fails immediately on a closed stdin instead of waiting for a terminal
	code, _, _, err := CombinedContext(logCtx(), "", "sh", "-c", "read x")
	if err != nil {
		t.Fatalf("CombinedContext error = %v", err)
	}
	if code == 0 {
		t.Error("read from closed stdin should fail")
	}
}

func TestCombinedContext_Cancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(logCtx())
	cancel()
	if _, _, _, err := CombinedContext(ctx, "", "true"); err == nil {
		t.Error("CombinedContext on cancelled context should fail")
	}
}
