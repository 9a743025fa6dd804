package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/stock-analyzer/internal/engine"
)

// rule1Cmd executes the Rule #1 historical analysis.
var rule1Cmd = &cobra.Command{
	Use:   "rule1",
	Short: "Run the Rule #1 historical analysis",
	Long: `Computes the Rule #1 "Big Five" numbers for every configured ticker:
per-year ROIC, book value per share, EPS, revenue and free cash flow,
year-over-year growth, compound growth over the full range and the most
recent span, trailing-twelve-month levels, and balance sheet ratios.

Results are persisted per (ticker, fiscal year) and per (ticker, date).

Example:
  go run ./cmd/analyzer rule1`,
	RunE: runRule1,
}

func init() {
	rootCmd.AddCommand(rule1Cmd)
}

func runRule1(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	symbols, err := a.tickers()
	if err != nil {
		return err
	}

	runner := engine.NewRule1Runner(a.cfg, a.provider, a.rule1, a.logger)
	summary, err := runner.Run(ctx, symbols)
	if err != nil {
		return err
	}

	fmt.Printf("analyzed %d tickers (%d excluded), %d pass all growth criteria, in %s\n",
		summary.Succeeded, summary.Failed, summary.Passed,
		summary.Duration.Round(time.Millisecond))

	return nil
}
