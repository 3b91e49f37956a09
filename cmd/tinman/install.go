package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tinmanhq/tinman/internal/scheduler"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the heartbeat as a background scheduler job",
	Long: `Save the current configuration and register tinman with the host OS
scheduler (launchd on macOS, cron on Linux). Each fired job runs a
single beat: tinman run --once.`,
	Run: func(cmd *cobra.Command, args []string) {
		preset, _ := cmd.Flags().GetString("preset")

		cfg := loadConfig()
		if preset != "" {
			if err := cfg.ApplyPreset(preset); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}

		saved, err := cfg.Save(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config saved to %s\n", saved)

		sched := scheduler.New(saved)
		if err := sched.Install(); err != nil {
			fmt.Fprintf(os.Stderr, "Scheduler install failed: %v\n", err)
			fmt.Fprintln(os.Stderr, "Run manually: tinman run --loop")
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		mode := "notify-only"
		if !cfg.NotifyOnly {
			mode = "ACTIVE (can run commands)"
		}
		fmt.Printf("%s Heartbeat scheduler installed (%s).\n", green("✓"), sched.System())
		fmt.Printf("  Interval: every %d min\n", cfg.IntervalMinutes)
		fmt.Printf("  Mode: %s\n", mode)
	},
}

func init() {
	installCmd.Flags().String("preset", "", "Security preset (sane, paranoid, chaos)")
	rootCmd.AddCommand(installCmd)
}
