package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stock-analyzer/internal/contracts"
	"github.com/wonny/stock-analyzer/pkg/logger"
)

type fakeRule1Repo struct {
	mu        sync.Mutex
	annual    map[string][]contracts.Rule1Annual
	summaries map[string]*contracts.Rule1Summary
	failing   bool
}

func newFakeRule1Repo() *fakeRule1Repo {
	return &fakeRule1Repo{
		annual:    make(map[string][]contracts.Rule1Annual),
		summaries: make(map[string]*contracts.Rule1Summary),
	}
}

func (r *fakeRule1Repo) UpsertAnnual(_ context.Context, symbol string, rows []contracts.Rule1Annual) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return &contracts.PersistenceError{Op: "upsert rule1 annual", Err: errors.New("down")}
	}
	r.annual[symbol] = rows
	return nil
}

func (r *fakeRule1Repo) UpsertSummary(_ context.Context, symbol string, _ time.Time, s *contracts.Rule1Summary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return &contracts.PersistenceError{Op: "upsert rule1 summary", Err: errors.New("down")}
	}
	r.summaries[symbol] = s
	return nil
}

// growthFundamentals yields three annual statements with steady growth,
// enough history for full and recent CAGRs.
func growthFundamentals(symbol string) *contracts.Fundamentals {
	stmt := func(year int, scale float64) contracts.Statement {
		return contracts.Statement{
			FiscalYear:         year,
			EBIT:               contracts.Float(100 * scale),
			NetIncome:          contracts.Float(80 * scale),
			Revenue:            contracts.Float(500e6 * scale),
			FreeCashFlow:       contracts.Float(60e6 * scale),
			Equity:             contracts.Float(400 * scale),
			SharesOutstanding:  contracts.Float(10),
			BasicEPS:           contracts.Float(8 * scale),
			AvgSharePrice:      contracts.Float(200 * scale),
			TotalAssets:        contracts.Float(900 * scale),
			CurrentAssets:      contracts.Float(500 * scale),
			CurrentLiabilities: contracts.Float(250 * scale),
			Cash:               contracts.Float(100 * scale),
			Inventory:          contracts.Float(50 * scale),
			TotalLiabilities:   contracts.Float(500 * scale),
		}
	}

	return &contracts.Fundamentals{
		Instrument: contracts.Instrument{Symbol: symbol},
		Price:      contracts.Float(300),
		// Newest first.
		Statements: []contracts.Statement{stmt(2025, 1.44), stmt(2024, 1.2), stmt(2023, 1.0)},
	}
}

func TestRule1RunPersistsSeriesAndSummary(t *testing.T) {
	provider := &fakeProvider{data: map[string]*contracts.Fundamentals{
		"GRW":  growthFundamentals("GRW"),
		"ALSO": growthFundamentals("ALSO"),
	}}
	repo := newFakeRule1Repo()

	r := NewRule1Runner(testConfig(), provider, repo, logger.NewNop())
	summary, err := r.Run(context.Background(), []string{"GRW", "ALSO"})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)

	require.Contains(t, repo.annual, "GRW")
	assert.Len(t, repo.annual["GRW"], 3)
	require.Contains(t, repo.summaries, "GRW")
	assert.Equal(t, 3, repo.summaries["GRW"].YearsOfData)
}

func TestRule1RunIsolatesFailures(t *testing.T) {
	provider := &fakeProvider{data: map[string]*contracts.Fundamentals{
		"GRW": growthFundamentals("GRW"),
	}}
	repo := newFakeRule1Repo()

	r := NewRule1Runner(testConfig(), provider, repo, logger.NewNop())
	summary, err := r.Run(context.Background(), []string{"GRW", "GONE"})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "GONE", summary.Failures[0].Symbol)
}

func TestRule1RunCountsPassingTickers(t *testing.T) {
	// 20% annual growth clears the 10% Rule #1 bar on every metric.
	provider := &fakeProvider{data: map[string]*contracts.Fundamentals{
		"GRW": growthFundamentals("GRW"),
	}}
	repo := newFakeRule1Repo()

	r := NewRule1Runner(testConfig(), provider, repo, logger.NewNop())
	summary, err := r.Run(context.Background(), []string{"GRW"})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Passed)
}

func TestRule1RunFatalOnPersistenceFailure(t *testing.T) {
	provider := &fakeProvider{data: map[string]*contracts.Fundamentals{
		"GRW": growthFundamentals("GRW"),
	}}
	repo := newFakeRule1Repo()
	repo.failing = true

	r := NewRule1Runner(testConfig(), provider, repo, logger.NewNop())
	_, err := r.Run(context.Background(), []string{"GRW"})

	var pe *contracts.PersistenceError
	require.ErrorAs(t, err, &pe)
}
