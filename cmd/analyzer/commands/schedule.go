package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/stock-analyzer/internal/engine"
	"github.com/wonny/stock-analyzer/internal/scheduler"
	"github.com/wonny/stock-analyzer/internal/scheduler/jobs"
	"github.com/wonny/stock-analyzer/internal/store"
)

// scheduleCmd runs the analyzer as a long-lived scheduled service.
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the analyzer on its cron schedules",
	Long: `Starts a long-lived process that fires the scoring analysis and the
Rule #1 analysis on their configured cron schedules (ANALYZER_SCHEDULE
and RULE1_SCHEDULE). The schema is migrated on startup.

Stops cleanly on SIGINT/SIGTERM, waiting for a running job to finish.

Example:
  go run ./cmd/analyzer schedule`,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := store.Migrate(ctx, a.db.Pool); err != nil {
		return err
	}

	e, err := engine.New(a.cfg, a.provider, a.snapshots, a.logger)
	if err != nil {
		return err
	}
	runner := engine.NewRule1Runner(a.cfg, a.provider, a.rule1, a.logger)

	sched := scheduler.New(a.logger)
	if err := sched.AddJob(jobs.NewAnalysisJob(e, a.cfg, a.logger)); err != nil {
		return err
	}
	if err := sched.AddJob(jobs.NewRule1Job(runner, a.cfg, a.logger)); err != nil {
		return err
	}

	sched.Start()
	fmt.Printf("scheduler running: analysis %q, rule1 %q\n",
		a.cfg.Analyzer.Schedule, a.cfg.Analyzer.Rule1Schedule)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
