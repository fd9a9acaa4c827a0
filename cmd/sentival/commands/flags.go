package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sentival/backend/internal/contracts"
)

// flagsCmd groups flag inspection and management
var flagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "Inspect and manage trading flags",
	Long: `Lists trading flags or closes an open flag manually.

Subcommands:
  list   - list flags by status
  close  - close an open flag

Example:
  go run ./cmd/sentival flags list --status OPEN
  go run ./cmd/sentival flags close 42`,
}

var flagStatusFilter string

var flagsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List flags by status",
	RunE:  listFlags,
}

var flagsCloseCmd = &cobra.Command{
	Use:   "close [flag_id]",
	Short: "Close an open flag",
	Args:  cobra.ExactArgs(1),
	RunE:  closeFlag,
}

func init() {
	flagsListCmd.Flags().StringVar(&flagStatusFilter, "status", "OPEN", "status filter (OPEN|CLOSED|EXPIRED)")
	flagsCmd.AddCommand(flagsListCmd)
	flagsCmd.AddCommand(flagsCloseCmd)
	rootCmd.AddCommand(flagsCmd)
}

func listFlags(cmd *cobra.Command, args []string) error {
	status := contracts.FlagStatus(flagStatusFilter)
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", flagStatusFilter)
	}

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	flags, err := app.flagRepo.ListByStatus(context.Background(), status, 100)
	if err != nil {
		return fmt.Errorf("list flags: %w", err)
	}

	if len(flags) == 0 {
		fmt.Printf("No %s flags\n", status)
		return nil
	}

	fmt.Printf("%-6s %-8s %-6s %-10s %-8s %s\n", "ID", "SYMBOL", "TYPE", "CONFIDENCE", "STATUS", "CREATED")
	for _, f := range flags {
		fmt.Printf("%-6d %-8s %-6s %-10.1f %-8s %s\n",
			f.ID, f.Symbol, f.Type, f.Confidence, f.Status, f.CreatedAt.Format("2006-01-02 15:04"))
	}

	return nil
}

func closeFlag(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid flag id %q", args[0])
	}

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.flagRepo.Close(context.Background(), id, contracts.StatusClosed, time.Now()); err != nil {
		return fmt.Errorf("close flag %d: %w", id, err)
	}

	fmt.Printf("Flag %d closed\n", id)
	return nil
}
