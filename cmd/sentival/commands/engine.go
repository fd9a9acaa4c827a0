package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// engineCmd groups the flag evaluation operations
var engineCmd = &cobra.Command{
	Use:   "engine",
	Short: "Flag evaluation engine",
	Long: `Runs the flag evaluation engine against stored signals.

Subcommands:
  run    - evaluate all tickers and create flags
  sweep  - expire stale open flags

Example:
  go run ./cmd/sentival engine run
  go run ./cmd/sentival engine sweep`,
}

var engineRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate all tickers and create flags",
	RunE:  runEngine,
}

var engineSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Expire open flags older than the configured maximum age",
	RunE:  runSweep,
}

func init() {
	engineCmd.AddCommand(engineRunCmd)
	engineCmd.AddCommand(engineSweepCmd)
	rootCmd.AddCommand(engineCmd)
}

func runEngine(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := context.Background()

	inputs, err := app.aggregator.Collect(ctx)
	if err != nil {
		return fmt.Errorf("collect inputs: %w", err)
	}

	result, err := app.engine.Run(ctx, inputs)
	if err != nil {
		return fmt.Errorf("engine run: %w", err)
	}

	fmt.Printf("Evaluated:        %d\n", result.Evaluated)
	fmt.Printf("Flags created:    %d\n", result.Created)
	fmt.Printf("Skipped existing: %d\n", result.SkippedExisting)
	fmt.Printf("Ineligible:       %d\n", result.Ineligible)
	fmt.Printf("Below confidence: %d\n", result.BelowConfidence)
	fmt.Printf("Failed:           %d\n", result.Failed)

	for _, flag := range result.Flags {
		fmt.Printf("  %s  %s  confidence %.1f\n", flag.Symbol, flag.Type, flag.Confidence)
	}

	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	expired, err := app.engine.SweepExpired(context.Background())
	if err != nil {
		return fmt.Errorf("expiry sweep: %w", err)
	}

	fmt.Printf("Expired flags: %d\n", expired)
	return nil
}
