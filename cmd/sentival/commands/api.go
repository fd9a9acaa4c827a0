package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sentival/backend/internal/api"
	"github.com/sentival/backend/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health                      - Health check
  GET  /api/flags?status=           - List flags
  GET  /api/flags/{id}              - Get a flag
  POST /api/flags/{id}/close        - Close an open flag
  GET  /api/tickers/{symbol}        - Get a ticker
  GET  /api/tickers/{symbol}/flags  - Flag history for a ticker
  GET  /api/tickers/{symbol}/posts  - Top stored posts for a ticker

Example:
  go run ./cmd/sentival api
  go run ./cmd/sentival api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (defaults to PORT env)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if apiPort != "" {
		app.cfg.Port = apiPort
	}

	flagHandler := handlers.NewFlagHandler(app.flagRepo, app.log)
	tickerHandler := handlers.NewTickerHandler(app.tickerRepo, app.flagRepo, app.sentimentRepo, app.log)

	router := api.NewRouter(flagHandler, tickerHandler, app.log)
	server := api.New(app.cfg, app.log, router)

	go func() {
		if err := server.Start(); err != nil {
			app.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", app.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}
