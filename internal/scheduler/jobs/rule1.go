package jobs

import (
	"context"

	"github.com/wonny/stock-analyzer/internal/engine"
	"github.com/wonny/stock-analyzer/pkg/config"
	"github.com/wonny/stock-analyzer/pkg/logger"
)

// Rule1Job runs the weekly Rule #1 historical analysis.
type Rule1Job struct {
	runner   *engine.Rule1Runner
	cfg      *config.Config
	schedule string
	logger   *logger.Logger
}

// NewRule1Job creates the Rule #1 job.
func NewRule1Job(r *engine.Rule1Runner, cfg *config.Config, log *logger.Logger) *Rule1Job {
	return &Rule1Job{
		runner:   r,
		cfg:      cfg,
		schedule: cfg.Analyzer.Rule1Schedule,
		logger:   log,
	}
}

// Name implements scheduler.Job.
func (j *Rule1Job) Name() string { return "rule1" }

// Schedule implements scheduler.Job.
func (j *Rule1Job) Schedule() string { return j.schedule }

// Run implements scheduler.Job.
func (j *Rule1Job) Run(ctx context.Context) error {
	symbols, err := config.LoadTickers(j.cfg.Analyzer.TickersFile)
	if err != nil {
		return err
	}

	_, err = j.runner.Run(ctx, symbols)
	return err
}
