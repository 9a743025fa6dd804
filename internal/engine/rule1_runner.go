package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wonny/stock-analyzer/internal/contracts"
	"github.com/wonny/stock-analyzer/internal/rule1"
	"github.com/wonny/stock-analyzer/pkg/config"
	"github.com/wonny/stock-analyzer/pkg/logger"
)

// Rule1Runner runs the Rule #1 historical analysis over a ticker list.
// Unlike the scoring run there is no cross-sectional barrier: every ticker
// is analyzed and persisted independently, so failures stay isolated.
type Rule1Runner struct {
	provider contracts.FundamentalsProvider
	repo     contracts.Rule1Repository
	analyzer *rule1.Analyzer
	logger   *logger.Logger

	concurrency int
	now         func() time.Time
}

// Rule1RunSummary aggregates one Rule #1 batch.
type Rule1RunSummary struct {
	CalcDate time.Time
	Duration time.Duration

	Succeeded int
	Failed    int
	Passed    int
	Failures  []contracts.InstrumentFailure
}

// NewRule1Runner wires a runner from config.
func NewRule1Runner(cfg *config.Config, provider contracts.FundamentalsProvider, repo contracts.Rule1Repository, log *logger.Logger) *Rule1Runner {
	concurrency := cfg.Analyzer.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &Rule1Runner{
		provider:    provider,
		repo:        repo,
		analyzer:    rule1.NewAnalyzer(log),
		logger:      log,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// Run analyzes and persists every symbol. The error is non-nil only when
// a persistence write fails after its retry.
func (r *Rule1Runner) Run(ctx context.Context, symbols []string) (*Rule1RunSummary, error) {
	started := r.now()
	calcDate := started.UTC().Truncate(24 * time.Hour)

	summary := &Rule1RunSummary{CalcDate: calcDate}

	r.logger.WithFields(map[string]interface{}{
		"symbols":   len(symbols),
		"calc_date": calcDate.Format("2006-01-02"),
	}).Info("rule1 run started")

	type outcome struct {
		symbol string
		passed bool
		err    error
	}

	outcomes := make([]outcome, len(symbols))
	sem := make(chan struct{}, r.concurrency)
	var wg sync.WaitGroup

	for i, symbol := range symbols {
		wg.Add(1)
		sem <- struct{}{}

		go func(i int, symbol string) {
			defer wg.Done()
			defer func() { <-sem }()

			passed, err := r.analyzeOne(ctx, symbol, calcDate)
			outcomes[i] = outcome{symbol: symbol, passed: passed, err: err}
		}(i, symbol)
	}
	wg.Wait()

	for _, o := range outcomes {
		if o.err == nil {
			summary.Succeeded++
			if o.passed {
				summary.Passed++
			}
			continue
		}

		var pe *contracts.PersistenceError
		if errors.As(o.err, &pe) {
			summary.Duration = r.now().Sub(started)
			return summary, o.err
		}

		summary.Failed++
		summary.Failures = append(summary.Failures, contracts.InstrumentFailure{
			Symbol: o.symbol,
			Reason: o.err.Error(),
		})
	}

	summary.Duration = r.now().Sub(started)
	r.logger.WithFields(map[string]interface{}{
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
		"passed":    summary.Passed,
		"duration":  summary.Duration.String(),
	}).Info("rule1 run finished")

	return summary, nil
}

func (r *Rule1Runner) analyzeOne(ctx context.Context, symbol string, calcDate time.Time) (bool, error) {
	f, err := r.provider.Fetch(ctx, symbol)
	if err != nil {
		r.logger.WithField("symbol", symbol).WithError(err).Warn("rule1: ticker excluded")
		return false, err
	}

	annual, sum, err := r.analyzer.Analyze(f, calcDate)
	if err != nil {
		r.logger.WithField("symbol", symbol).WithError(err).Warn("rule1: ticker excluded")
		return false, err
	}

	if err := retryOnce(func() error { return r.repo.UpsertAnnual(ctx, symbol, annual) }, r.logger); err != nil {
		return false, err
	}
	if err := retryOnce(func() error { return r.repo.UpsertSummary(ctx, symbol, calcDate, sum) }, r.logger); err != nil {
		return false, err
	}

	return rule1.PassesRule1(sum), nil
}

func retryOnce(write func() error, log *logger.Logger) error {
	err := write()
	if err == nil {
		return nil
	}
	log.WithError(err).Warn("write failed, retrying once")
	return write()
}
