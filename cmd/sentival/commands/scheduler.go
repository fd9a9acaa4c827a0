package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sentival/backend/internal/scheduler"
	"github.com/sentival/backend/internal/scheduler/jobs"
)

// schedulerCmd starts the scheduler daemon
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Start the scheduler daemon",
	Long: `Starts the scheduler and registers all jobs.

Registered jobs:
- pipeline:    hourly full pipeline run
- flag_expiry: hourly sweep of stale open flags

The scheduler stops on Ctrl+C and prints a per-job run summary.

Example:
  go run ./cmd/sentival scheduler`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	sched := scheduler.New(app.log)

	if err := sched.AddJob(jobs.NewPipelineJob(app.orchestrator, app.log)); err != nil {
		return fmt.Errorf("register pipeline job: %w", err)
	}
	if err := sched.AddJob(jobs.NewExpiryJob(app.engine, app.log)); err != nil {
		return fmt.Errorf("register expiry job: %w", err)
	}

	sched.Start()
	fmt.Println("Scheduler running. Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	printJobSummary(sched)
	return nil
}

// printJobSummary reports each job's run history on shutdown
func printJobSummary(sched *scheduler.Scheduler) {
	for _, name := range sched.Jobs() {
		history, err := sched.GetJobHistory(name)
		if err != nil {
			continue
		}

		runs := len(history.Results)
		if runs == 0 {
			fmt.Printf("%s: no runs\n", name)
			continue
		}

		last := history.GetLatestResults(1)[0]
		outcome := "ok"
		if !last.Success {
			outcome = "failed: " + last.Error
		}
		fmt.Printf("%s: %d runs, %.0f%% success, last run %s (%s)\n",
			name, runs, history.GetSuccessRate()*100, outcome, last.Duration.Round(time.Millisecond))
	}
}
