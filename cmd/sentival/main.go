package main

import (
	"os"

	"github.com/sentival/backend/cmd/sentival/commands"
)

// main is the entry point for the Sentival CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
