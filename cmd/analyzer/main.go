package main

import (
	"os"

	"github.com/wonny/stock-analyzer/cmd/analyzer/commands"
)

// main is the entry point for the analyzer CLI:
// go run ./cmd/analyzer [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
