package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hearth",
	Short: "Smart home task orchestrator",
	Long: `Hearth coordinates a household of device agents from natural
language requests.

With no arguments, launches an interactive session where you can type
requests and watch the devices carry them out.

Core capabilities:
- Plans a multi-device task queue for each request
- Runs one device agent at a time, in plan order
- Lets a device ask one other device for help before finishing
- Keeps a shared history so later tasks see earlier results`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	Execute()
}
