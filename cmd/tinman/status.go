package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tinmanhq/tinman/internal/beatlog"
	"github.com/tinmanhq/tinman/internal/scheduler"
	"github.com/tinmanhq/tinman/internal/types"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show scheduler state and recent heartbeats",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s\n\n", cyan("=== TinMan Status ==="))

		sched := scheduler.New(configPath)
		fmt.Printf("Scheduler: %s\n", sched.Status())
		fmt.Printf("Interval:  %d min\n", cfg.IntervalMinutes)
		mode := "notify-only"
		if !cfg.NotifyOnly {
			mode = "ACTIVE"
		}
		fmt.Printf("Mode:      %s\n", mode)
		fmt.Printf("Preset:    %s\n", cfg.Preset)

		log := beatlog.New(cfg, newDiagLogger())
		entries, err := log.Tail(5)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading heartbeat log: %v\n", err)
			os.Exit(1)
		}
		if len(entries) == 0 {
			fmt.Printf("\n%s\n", gray("No heartbeat log found yet."))
			return
		}

		fmt.Println("\nLast heartbeats:")
		for _, e := range entries {
			fmt.Printf("  %s %s  status=%s  %gs\n",
				glyphFor(e.Status), e.Timestamp, e.Status, e.DurationSeconds)
		}
	},
}

// glyphFor colors a status glyph for terminal display
func glyphFor(s types.Status) string {
	switch s {
	case types.StatusOK:
		return color.GreenString(s.Glyph())
	case types.StatusAlert:
		return color.YellowString(s.Glyph())
	case types.StatusError:
		return color.RedString(s.Glyph())
	default:
		return s.Glyph()
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
