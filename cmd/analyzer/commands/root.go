package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	tickersFile string
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "analyzer",
	Short: "Equity fundamentals scoring engine",
	Long: `Stock Analyzer CLI

Fetches fundamentals for a ticker universe, computes value and quality
metrics, ranks the universe cross-sectionally, and persists daily
buy/hold/sell snapshots to Postgres.

Usage:
  go run ./cmd/analyzer [command]

Examples:
  go run ./cmd/analyzer migrate
  go run ./cmd/analyzer run
  go run ./cmd/analyzer rule1
  go run ./cmd/analyzer schedule`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&tickersFile, "tickers", "", "ticker list file (default from TICKERS_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
