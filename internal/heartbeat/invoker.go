package heartbeat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// BeatTimeout is the hard deadline for one assistant invocation
const BeatTimeout = 120 * time.Second

// claudeBin is the assistant CLI searched for on PATH
const claudeBin = "claude"

// Invoker runs the assistant CLI with a prompt and captures its output.
// The narrow interface keeps the runner testable without an installed
// CLI.
type Invoker interface {
	// Invoke runs bin with the prompt in non-interactive print mode and
	// returns captured stdout and stderr. err is non-nil only for
	// invocation-level faults: the process could not be started, or the
	// deadline fired. A non-zero exit with captured output is a completed
	// invocation, not a fault; classification decides what it means.
	Invoke(ctx context.Context, bin, prompt string) (stdout, stderr string, err error)
}

// CLIInvoker invokes the assistant as a subprocess with --print,
// passing the full prompt as a single argument.
type CLIInvoker struct {
	Timeout time.Duration
}

// NewCLIInvoker creates an invoker with the standard beat timeout
func NewCLIInvoker() *CLIInvoker {
	return &CLIInvoker{Timeout: BeatTimeout}
}

// Invoke runs the CLI under the configured deadline
func (ci *CLIInvoker) Invoke(ctx context.Context, bin, prompt string) (string, string, error) {
	timeout := ci.Timeout
	if timeout <= 0 {
		timeout = BeatTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, "--print", prompt)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	// A terminated context is always a fault, even though the killed
	// process may also surface as an ExitError with partial output.
	if ctxErr := ctx.Err(); ctxErr != nil {
		if ctxErr == context.DeadlineExceeded {
			return stdout.String(), stderr.String(),
				fmt.Errorf("%s invocation timed out after %s", bin, timeout)
		}
		return stdout.String(), stderr.String(),
			fmt.Errorf("%s invocation cancelled: %w", bin, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// The CLI ran to completion with a non-zero exit; its output is
		// still meaningful and classification takes precedence.
		return stdout.String(), stderr.String(), nil
	}
	if err != nil {
		return stdout.String(), stderr.String(), fmt.Errorf("running %s: %w", bin, err)
	}
	return stdout.String(), stderr.String(), nil
}
