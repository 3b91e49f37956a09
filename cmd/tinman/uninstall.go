package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinmanhq/tinman/internal/scheduler"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the background scheduler job",
	Run: func(cmd *cobra.Command, args []string) {
		sched := scheduler.New(configPath)
		if err := sched.Uninstall(); err != nil {
			fmt.Fprintf(os.Stderr, "Error removing scheduler job: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Heartbeat scheduler removed.")
	},
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}
