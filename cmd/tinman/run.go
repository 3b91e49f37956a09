package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tinmanhq/tinman/internal/config"
	"github.com/tinmanhq/tinman/internal/heartbeat"
	"github.com/tinmanhq/tinman/internal/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a heartbeat (once, or continuously with --loop)",
	Long: `Execute the heartbeat cycle: read HEARTBEAT.md, invoke the claude CLI
with the checklist, classify the reply, log it, and notify.

Without --loop this runs a single beat and exits 0 when the status is
ok or skipped_empty, 1 otherwise. With --loop it keeps beating on the
configured interval until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		loop, _ := cmd.Flags().GetBool("loop")
		preset, _ := cmd.Flags().GetString("preset")

		cfg := loadConfig()
		if preset != "" {
			if err := cfg.ApplyPreset(preset); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}

		diag := newDiagLogger()
		defer func() { _ = diag.Sync() }()
		runner := heartbeat.New(cfg, diag)

		if loop {
			runLoop(cfg, runner)
			return
		}

		result := runner.RunBeat(context.Background())
		os.Exit(exitCode(result.Status))
	},
}

// exitCode maps a beat status to the process exit code: 0 when nothing
// went wrong (ok or an intentionally skipped beat), 1 otherwise.
func exitCode(s types.Status) int {
	if s == types.StatusOK || s == types.StatusSkippedEmpty {
		return 0
	}
	return 1
}

func init() {
	runCmd.Flags().Bool("once", false, "Run once and exit (the default; kept for scheduler compatibility)")
	runCmd.Flags().Bool("loop", false, "Run continuously on the configured interval")
	runCmd.Flags().String("preset", "", "Security preset override (sane, paranoid, chaos)")
	rootCmd.AddCommand(runCmd)
}

// runLoop drives the continuous foreground loop until SIGINT/SIGTERM
func runLoop(cfg *config.Config, runner *heartbeat.Runner) {
	cyan := color.New(color.FgCyan).SprintFunc()
	mode := "notify-only"
	if !cfg.NotifyOnly {
		mode = "ACTIVE (can run commands)"
	}
	fmt.Printf("%s Starting heartbeat loop every %d min.\n", cyan("[tinman]"), cfg.IntervalMinutes)
	fmt.Printf("%s Checklist: %s\n", cyan("[tinman]"), config.ExpandHome(cfg.HeartbeatMD))
	fmt.Printf("%s Mode: %s\n", cyan("[tinman]"), mode)
	fmt.Printf("%s Press Ctrl+C to stop.\n\n", cyan("[tinman]"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner.RunLoop(ctx)
}
