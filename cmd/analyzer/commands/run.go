package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/stock-analyzer/internal/contracts"
	"github.com/wonny/stock-analyzer/internal/engine"
)

// runCmd executes one full scoring analysis.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one scoring analysis over the ticker universe",
	Long: `Fetches fundamentals for every configured ticker, computes metrics,
ranks the universe, scores it, and persists the daily snapshot.

Per-ticker failures are logged and excluded; the command fails only
when nothing could be analyzed or persistence failed.

Example:
  go run ./cmd/analyzer run
  go run ./cmd/analyzer run --tickers ./tickers.txt`,
	RunE: runAnalysis,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runAnalysis(cmd *cobra.Command, args []string) error {
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

	e, err := engine.New(a.cfg, a.provider, a.snapshots, a.logger)
	if err != nil {
		return err
	}

	summary, err := e.Run(ctx, symbols)
	if err != nil {
		return err
	}
	if summary.State != contracts.RunDone {
		return fmt.Errorf("run finished in state %s", summary.State)
	}

	fmt.Printf("analyzed %d tickers (%d excluded): %d BUY / %d HOLD / %d SELL in %s\n",
		summary.Succeeded, summary.Failed,
		summary.Buys, summary.Holds, summary.Sells,
		summary.Duration.Round(time.Millisecond))

	return nil
}
