package notify

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/tinmanhq/tinman/internal/types"
)

// ConsoleSink prints a short human-readable summary of each result:
// a status glyph, timestamp and duration, followed by the assistant's
// output. Error text goes to the error stream.
type ConsoleSink struct {
	// Out and Err default to stdout and stderr
	Out io.Writer
	Err io.Writer
}

// NewConsoleSink creates a console sink writing to stdout/stderr
func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{Out: os.Stdout, Err: os.Stderr}
}

// Name identifies the sink in diagnostics
func (s *ConsoleSink) Name() string { return "console" }

// Notify prints the result summary. Never fails the cycle.
func (s *ConsoleSink) Notify(result *types.HeartbeatResult) error {
	out := s.Out
	if out == nil {
		out = os.Stdout
	}
	errw := s.Err
	if errw == nil {
		errw = os.Stderr
	}

	glyph := result.Status.Glyph()
	switch result.Status {
	case types.StatusOK:
		glyph = color.GreenString(glyph)
	case types.StatusAlert:
		glyph = color.YellowString(glyph)
	case types.StatusError:
		glyph = color.RedString(glyph)
	}

	fmt.Fprintf(out, "\n[tinman] %s %s  (%gs)\n", glyph, result.Timestamp, result.DurationSeconds)
	if result.Output != "" {
		fmt.Fprintln(out, result.Output)
	}
	if result.Error != "" {
		fmt.Fprintf(errw, "[tinman] ERROR: %s\n", result.Error)
	}
	return nil
}
