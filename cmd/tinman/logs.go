package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinmanhq/tinman/internal/beatlog"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print recent heartbeat log entries",
	Long:  `Print the most recent heartbeat results as JSON lines, oldest first.`,
	Run: func(cmd *cobra.Command, args []string) {
		n, _ := cmd.Flags().GetInt("n")

		cfg := loadConfig()
		log := beatlog.New(cfg, newDiagLogger())

		entries, err := log.Tail(n)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading heartbeat log: %v\n", err)
			os.Exit(1)
		}
		if len(entries) == 0 {
			fmt.Println("No log entries found.")
			return
		}
		for _, e := range entries {
			line, err := json.Marshal(e)
			if err != nil {
				continue
			}
			fmt.Println(string(line))
		}
	},
}

func init() {
	logsCmd.Flags().IntP("n", "n", 20, "Number of entries to show")
	rootCmd.AddCommand(logsCmd)
}
