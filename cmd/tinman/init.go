package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tinmanhq/tinman/internal/config"
	"github.com/tinmanhq/tinman/internal/heartbeat"
	"github.com/tinmanhq/tinman/internal/scheduler"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactive first-time setup (start here)",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInit(); err != nil {
			fmt.Fprintf(os.Stderr, "Setup failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit() error {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("\n%s\n\n", cyan("=== TinMan Setup - Give CC a Heart ==="))

	fmt.Println("Security preset:")
	fmt.Println("  sane     - notify-only, 30min interval (recommended)")
	fmt.Println("  paranoid - notify-only, 15min interval, max logging")
	fmt.Println("  chaos    - active mode, 5min interval (you've been warned)")
	fmt.Println()

	rl, err := readline.New("")
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	defer rl.Close()

	preset, err := prompt(rl, "Preset [sane]: ")
	if err != nil {
		return err
	}
	preset = strings.ToLower(preset)
	if preset == "" {
		preset = config.PresetSane
	}

	cfg := config.Default()
	if err := cfg.ApplyPreset(preset); err != nil {
		fmt.Printf("Unknown preset %q, using %q.\n", preset, config.PresetSane)
		_ = cfg.ApplyPreset(config.PresetSane)
	}

	ans, err := prompt(rl, fmt.Sprintf("Heartbeat interval in minutes [%d]: ", cfg.IntervalMinutes))
	if err != nil {
		return err
	}
	if n, convErr := strconv.Atoi(ans); convErr == nil && n > 0 {
		cfg.IntervalMinutes = n
	}

	saved, err := cfg.Save(configPath)
	if err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("\nConfig written to %s\n", saved)

	runner := heartbeat.New(cfg, newDiagLogger())
	mdPath, err := runner.EnsureChecklist()
	if err != nil {
		return fmt.Errorf("creating checklist: %w", err)
	}
	fmt.Printf("Heartbeat checklist at %s\n", mdPath)

	ans, err = prompt(rl, "\nInstall heartbeat scheduler now? [Y/n]: ")
	if err != nil {
		return err
	}
	if strings.ToLower(ans) != "n" {
		sched := scheduler.New(saved)
		if err := sched.Install(); err != nil {
			fmt.Printf("Scheduler install failed: %v\n", err)
			fmt.Println("Run manually: tinman run --loop")
		} else {
			fmt.Printf("Done! Heartbeat will run every %d min.\n", cfg.IntervalMinutes)
		}
	} else {
		fmt.Println("Run manually: tinman run --loop")
		fmt.Println("Or install later: tinman install")
	}

	fmt.Println("\nEdit your checklist anytime:")
	fmt.Printf("  %s\n\n", mdPath)
	return nil
}

// prompt reads one trimmed line with the given prompt text
func prompt(rl *readline.Instance, text string) (string, error) {
	rl.SetPrompt(text)
	line, err := rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt || err == io.EOF {
			return "", fmt.Errorf("setup cancelled")
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
