// tinman gives a Claude Code project a heartbeat: it periodically runs
// a user-editable checklist through the claude CLI, classifies the
// reply, logs it, and notifies you when something needs attention.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tinmanhq/tinman/internal/config"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:     "tinman",
	Short:   "Heartbeat for Claude Code. Give your agent a heart.",
	Version: "0.1.0",
	Long: `TinMan runs a scheduled heartbeat for a Claude Code project: on every
beat it feeds your HEARTBEAT.md checklist to the claude CLI, classifies
the reply (ok / alert / error), appends it to a rotating log, and
forwards it to the configured notification channels.

Start with:
  tinman init`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (JSON or YAML)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable diagnostic logging")
}

// loadConfig resolves the effective config for a command invocation
func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newDiagLogger builds the zap diagnostic logger. Diagnostics go to
// stderr; without --verbose only warnings and above are shown so the
// console sink's output stays readable.
func newDiagLogger() *zap.Logger {
	zc := zap.NewProductionConfig()
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	if !verbose {
		zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := zc.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
