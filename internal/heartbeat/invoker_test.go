package heartbeat

import (
	"context"
	"runtime"
	"strings"
	"testing"
)

func TestCLIInvokerCapturesStdout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX echo")
	}
	inv := NewCLIInvoker()

	stdout, stderr, err := inv.Invoke(context.Background(), "echo", "hello from the checklist")
	if err != nil {
		t.Fatalf("unexpected fault: %v", err)
	}
	if !strings.Contains(stdout, "hello from the checklist") {
		t.Errorf("stdout not captured: %q", stdout)
	}
	if stderr != "" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestCLIInvokerNonZeroExitIsNotFault(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	inv := NewCLIInvoker()

	// sh rejects --print and exits non-zero with a complaint on stderr;
	// that must surface as captured output, not as an invocation fault
	_, stderr, err := inv.Invoke(context.Background(), "sh", "ignored")
	if err != nil {
		t.Fatalf("non-zero exit should not be a fault, got: %v", err)
	}
	if stderr == "" {
		t.Error("expected the shell's complaint on stderr")
	}
}

func TestCLIInvokerCancelledContextIsFault(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX echo")
	}
	inv := NewCLIInvoker()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := inv.Invoke(ctx, "echo", "never runs")
	if err == nil {
		t.Fatal("expected a fault for a cancelled invocation")
	}
	if !strings.Contains(err.Error(), "cancel") {
		t.Errorf("fault should name the cancellation, got: %v", err)
	}
}

func TestCLIInvokerMissingBinaryIsFault(t *testing.T) {
	inv := NewCLIInvoker()

	_, _, err := inv.Invoke(context.Background(), "/nonexistent/claude", "prompt")
	if err == nil {
		t.Fatal("expected a fault for an unstartable binary")
	}
}
