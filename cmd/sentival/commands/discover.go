package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// discoverCmd runs the discovery stage only
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Run sentiment discovery only",
	Long: `Scrapes the trending-ticker table, scans subreddits for mentions
and records mention velocity, without validating or flagging.

Example:
  go run ./cmd/sentival discover`,
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.discovery.Run(context.Background())
	if err != nil {
		return fmt.Errorf("discovery run: %w", err)
	}

	fmt.Printf("Trending tickers:  %d\n", result.Trending)
	fmt.Printf("Reddit tickers:    %d\n", result.RedditTickers)
	fmt.Printf("Velocity records:  %d\n", result.VelocityRecords)
	fmt.Printf("Failures:          %d\n", result.Failed)

	return nil
}
