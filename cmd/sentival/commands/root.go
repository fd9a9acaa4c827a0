package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sentival",
	Short: "Sentival - social sentiment trading flags",
	Long: `Sentival Unified CLI

Collects social sentiment for equities, validates company fundamentals
and turns the combined signals into actionable trading flags.

Usage:
  go run ./cmd/sentival [command]

Examples:
  go run ./cmd/sentival pipeline
  go run ./cmd/sentival discover
  go run ./cmd/sentival engine run
  go run ./cmd/sentival flags list --status OPEN
  go run ./cmd/sentival api`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
