package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// validateCmd runs the validation stage only
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run fundamental validation only",
	Long: `Fetches fundamentals for every known ticker and records health
scores, without flagging.

Example:
  go run ./cmd/sentival validate`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.validator.Run(context.Background())
	if err != nil {
		return fmt.Errorf("validation run: %w", err)
	}

	fmt.Printf("Validated: %d\n", result.Validated)
	fmt.Printf("Healthy:   %d\n", result.Healthy)
	fmt.Printf("Failed:    %d\n", result.Failed)

	return nil
}
