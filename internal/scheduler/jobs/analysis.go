package jobs

import (
	"context"

	"github.com/wonny/stock-analyzer/internal/engine"
	"github.com/wonny/stock-analyzer/pkg/config"
	"github.com/wonny/stock-analyzer/pkg/logger"
)

// AnalysisJob runs the daily scoring analysis over the configured
// ticker list. The list is re-read on every fire so edits to the
// mounted file take effect without a restart.
type AnalysisJob struct {
	engine   *engine.Engine
	cfg      *config.Config
	schedule string
	logger   *logger.Logger
}

// NewAnalysisJob creates the scoring job.
func NewAnalysisJob(e *engine.Engine, cfg *config.Config, log *logger.Logger) *AnalysisJob {
	return &AnalysisJob{
		engine:   e,
		cfg:      cfg,
		schedule: cfg.Analyzer.Schedule,
		logger:   log,
	}
}

// Name implements scheduler.Job.
func (j *AnalysisJob) Name() string { return "analysis" }

// Schedule implements scheduler.Job.
func (j *AnalysisJob) Schedule() string { return j.schedule }

// Run implements scheduler.Job.
func (j *AnalysisJob) Run(ctx context.Context) error {
	symbols, err := config.LoadTickers(j.cfg.Analyzer.TickersFile)
	if err != nil {
		return err
	}

	_, err = j.engine.Run(ctx, symbols)
	return err
}
