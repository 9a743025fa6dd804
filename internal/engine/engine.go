package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/wonny/stock-analyzer/internal/contracts"
	"github.com/wonny/stock-analyzer/internal/metrics"
	"github.com/wonny/stock-analyzer/internal/piotroski"
	"github.com/wonny/stock-analyzer/internal/ranking"
	"github.com/wonny/stock-analyzer/internal/scoring"
	"github.com/wonny/stock-analyzer/pkg/config"
	"github.com/wonny/stock-analyzer/pkg/logger"
)

// Engine runs one full analysis: parallel fetch and metric calculation,
// a cross-sectional ranking barrier once all instruments are in, composite
// scoring, then persistence. Per-instrument failures are recorded and
// excluded; only an empty dataset or a persistence failure aborts the run.
type Engine struct {
	provider contracts.FundamentalsProvider
	repo     contracts.SnapshotRepository

	calculator *metrics.Calculator
	ranker     *ranking.Ranker
	evaluator  *piotroski.Evaluator
	scorer     *scoring.Scorer
	logger     *logger.Logger

	concurrency int
	runTimeout  time.Duration

	// now is swappable for tests.
	now func() time.Time
}

// New wires an engine from config. Weight validation happens here, before
// any work begins; an invalid weight set is a *contracts.ConfigError.
func New(cfg *config.Config, provider contracts.FundamentalsProvider, repo contracts.SnapshotRepository, log *logger.Logger) (*Engine, error) {
	scorer, err := scoring.NewScorer(cfg.Analyzer.Weights, log)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.Analyzer.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &Engine{
		provider:    provider,
		repo:        repo,
		calculator:  metrics.NewCalculator(log),
		ranker:      ranking.NewRanker(log),
		evaluator:   piotroski.NewEvaluator(log),
		scorer:      scorer,
		logger:      log,
		concurrency: concurrency,
		runTimeout:  cfg.Analyzer.RunTimeout,
		now:         time.Now,
	}, nil
}

// Run executes one analysis over the given symbols. The returned summary
// is always non-nil; err is non-nil only for run-level failures (empty
// configuration, empty dataset, persistence failure after retry).
func (e *Engine) Run(ctx context.Context, symbols []string) (*contracts.RunSummary, error) {
	started := e.now()
	calcDate := started.UTC().Truncate(24 * time.Hour)

	summary := &contracts.RunSummary{
		CalcDate: calcDate,
		State:    contracts.RunCollecting,
	}

	// An empty universe is a configuration problem, not a data problem:
	// abort before any provider call.
	if len(symbols) == 0 {
		summary.State = contracts.RunAborted
		summary.Duration = e.now().Sub(started)
		return summary, &contracts.ConfigError{Reason: "instrument list is empty"}
	}

	e.logger.WithFields(map[string]interface{}{
		"symbols":     len(symbols),
		"calc_date":   calcDate.Format("2006-01-02"),
		"concurrency": e.concurrency,
	}).Info("analysis run started")

	// Collection phase runs under the run deadline. Instruments still
	// in flight when it expires fail with a context error and are
	// excluded; everything collected so far continues to ranking.
	collectCtx := ctx
	if e.runTimeout > 0 {
		var cancel context.CancelFunc
		collectCtx, cancel = context.WithTimeout(ctx, e.runTimeout)
		defer cancel()
	}

	results := e.collect(collectCtx, symbols)

	survivors := make([]*contracts.InstrumentResult, 0, len(results))
	for _, res := range results {
		if res.Failed() {
			summary.Failed++
			summary.Failures = append(summary.Failures, contracts.InstrumentFailure{
				Symbol: res.Symbol,
				Reason: res.Err.Error(),
			})
			continue
		}
		survivors = append(survivors, res)
	}

	summary.State = contracts.RunRanking
	if len(survivors) == 0 {
		summary.State = contracts.RunAborted
		summary.Duration = e.now().Sub(started)
		e.logger.WithField("failed", summary.Failed).Error("no instruments survived collection, aborting")
		return summary, contracts.ErrEmptyDataset
	}

	sets := make([]*contracts.MetricSet, len(survivors))
	pioScores := make(map[string]int, len(survivors))
	for i, res := range survivors {
		sets[i] = res.Metrics
		pioScores[res.Symbol] = res.Piotroski.Score()
	}

	ranks := e.ranker.Rank(sets)
	for _, res := range survivors {
		res.State = contracts.StateRanked
	}

	summary.State = contracts.RunScoring
	scores := e.scorer.Score(ranks, pioScores)
	for _, res := range survivors {
		res.State = contracts.StateScored
	}

	summary.State = contracts.RunPersisting
	if err := e.persist(ctx, calcDate, survivors, ranks, scores); err != nil {
		summary.State = contracts.RunAborted
		summary.Duration = e.now().Sub(started)
		return summary, err
	}

	for _, res := range survivors {
		res.State = contracts.StatePersisted
		summary.Succeeded++
		switch scores[res.Symbol].Signal {
		case contracts.SignalBuy:
			summary.Buys++
		case contracts.SignalSell:
			summary.Sells++
		default:
			summary.Holds++
		}
	}

	summary.State = contracts.RunDone
	summary.Duration = e.now().Sub(started)

	e.logSummary(summary, scores)
	return summary, nil
}

// collect fetches and computes metrics for every symbol with a bounded
// worker pool. Each goroutine writes only its own slot, so no mutex is
// needed around the result slice.
func (e *Engine) collect(ctx context.Context, symbols []string) []*contracts.InstrumentResult {
	results := make([]*contracts.InstrumentResult, len(symbols))

	sem := make(chan struct{}, e.concurrency)
	var wg sync.WaitGroup

	for i, symbol := range symbols {
		wg.Add(1)
		sem <- struct{}{}

		go func(i int, symbol string) {
			defer wg.Done()
			defer func() { <-sem }()

			results[i] = e.collectOne(ctx, symbol)
		}(i, symbol)
	}

	wg.Wait()
	return results
}

func (e *Engine) collectOne(ctx context.Context, symbol string) *contracts.InstrumentResult {
	res := &contracts.InstrumentResult{Symbol: symbol}

	f, err := e.provider.Fetch(ctx, symbol)
	if err != nil {
		res.State = contracts.StateFailed
		res.Err = err
		e.logger.WithField("symbol", symbol).WithError(err).Warn("instrument excluded")
		return res
	}
	res.State = contracts.StateFetched
	res.Fundamentals = f

	m, err := e.calculator.Calculate(f)
	if err != nil {
		res.State = contracts.StateFailed
		res.Err = err
		e.logger.WithField("symbol", symbol).WithError(err).Warn("instrument excluded")
		return res
	}
	res.Metrics = m
	res.Piotroski = e.evaluator.Evaluate(f)
	res.State = contracts.StateMetricsComputed

	return res
}

// persist writes the dimension rows and snapshots. Each failing write is
// retried once; a second failure aborts the run with a PersistenceError.
func (e *Engine) persist(
	ctx context.Context,
	calcDate time.Time,
	survivors []*contracts.InstrumentResult,
	ranks map[string]*contracts.RankSet,
	scores map[string]*scoring.Result,
) error {
	for _, res := range survivors {
		if err := e.writeOnceRetry(func() error {
			return e.repo.UpsertInstrument(ctx, res.Fundamentals.Instrument)
		}); err != nil {
			return fmt.Errorf("instrument %s: %w", res.Symbol, err)
		}

		rankSet := ranks[res.Symbol]
		if rankSet == nil {
			rankSet = &contracts.RankSet{}
		}
		snap := &contracts.Snapshot{
			Symbol:         res.Symbol,
			CalcDate:       calcDate,
			Metrics:        *res.Metrics,
			Ranks:          *rankSet,
			PiotroskiScore: res.Piotroski.Score(),
			CompositeScore: scores[res.Symbol].CompositeScore,
			Signal:         scores[res.Symbol].Signal,
		}

		if err := e.writeOnceRetry(func() error {
			return e.repo.UpsertSnapshot(ctx, snap)
		}); err != nil {
			return fmt.Errorf("snapshot %s: %w", res.Symbol, err)
		}
	}
	return nil
}

func (e *Engine) writeOnceRetry(write func() error) error {
	err := retryOnce(write, e.logger)
	if err == nil {
		return nil
	}

	var pe *contracts.PersistenceError
	if errors.As(err, &pe) {
		return pe
	}
	return &contracts.PersistenceError{Op: "write", Err: err}
}

// logSummary emits the end-of-run report: counts, failures, and the ten
// highest composite scores.
func (e *Engine) logSummary(summary *contracts.RunSummary, scores map[string]*scoring.Result) {
	top := make([]*scoring.Result, 0, len(scores))
	for _, s := range scores {
		top = append(top, s)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].CompositeScore != top[j].CompositeScore {
			return top[i].CompositeScore > top[j].CompositeScore
		}
		return top[i].Symbol < top[j].Symbol
	})
	if len(top) > 10 {
		top = top[:10]
	}

	for i, s := range top {
		e.logger.WithFields(map[string]interface{}{
			"rank":      i + 1,
			"symbol":    s.Symbol,
			"composite": s.CompositeScore,
			"signal":    string(s.Signal),
		}).Info("top composite")
	}

	for _, f := range summary.Failures {
		e.logger.WithFields(map[string]interface{}{
			"symbol": f.Symbol,
			"reason": f.Reason,
		}).Warn("excluded from run")
	}

	e.logger.WithFields(map[string]interface{}{
		"state":     string(summary.State),
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
		"buys":      summary.Buys,
		"holds":     summary.Holds,
		"sells":     summary.Sells,
		"duration":  summary.Duration.String(),
	}).Info("analysis run finished")
}
