package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// pipelineCmd runs the full pipeline once
var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run the full pipeline once",
	Long: `Runs discovery, validation and flag evaluation in order.

This command:
- Scrapes trending tickers and scans subreddit mentions
- Fetches fundamentals and computes health scores
- Evaluates all tickers and creates trading flags

Example:
  go run ./cmd/sentival pipeline`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(pipelineCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.orchestrator.Run(context.Background())
	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	fmt.Println("=== Pipeline Run ===")
	if result.Discovery != nil {
		fmt.Printf("Discovery:  %d trending, %d reddit tickers, %d velocity records\n",
			result.Discovery.Trending, result.Discovery.RedditTickers, result.Discovery.VelocityRecords)
	}
	if result.Validation != nil {
		fmt.Printf("Validation: %d validated, %d healthy, %d failed\n",
			result.Validation.Validated, result.Validation.Healthy, result.Validation.Failed)
	}
	if result.Evaluation != nil {
		fmt.Printf("Evaluation: %d evaluated, %d flags created, %d skipped (existing)\n",
			result.Evaluation.Evaluated, result.Evaluation.Created, result.Evaluation.SkippedExisting)
	}
	for _, stageErr := range result.StageErrs {
		fmt.Printf("Stage error: %v\n", stageErr)
	}
	fmt.Printf("Duration: %s\n", result.Duration)

	return nil
}
