package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stock-analyzer/internal/contracts"
	"github.com/wonny/stock-analyzer/pkg/config"
	"github.com/wonny/stock-analyzer/pkg/logger"
)

func defaultWeights() config.Weights {
	return config.Weights{
		MagicFormula:  0.30,
		Piotroski:     0.25,
		FCFYield:      0.15,
		DebtEquity:    0.10,
		RevenueGrowth: 0.10,
		GrossMargin:   0.10,
	}
}

func TestNewScorerRejectsInvalidWeights(t *testing.T) {
	w := defaultWeights()
	w.MagicFormula = 0.50 // sum 1.20

	_, err := NewScorer(w, logger.NewNop())
	require.Error(t, err)

	var cfgErr *contracts.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestNewScorerAcceptsWithinTolerance(t *testing.T) {
	w := defaultWeights()
	w.GrossMargin += 5e-7

	_, err := NewScorer(w, logger.NewNop())
	assert.NoError(t, err)
}

func TestSignalBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  contracts.Signal
	}{
		{69.999, contracts.SignalHold},
		{70, contracts.SignalBuy},
		{100, contracts.SignalBuy},
		{30, contracts.SignalSell},
		{0, contracts.SignalSell},
		{30.001, contracts.SignalHold},
		{50, contracts.SignalHold},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SignalFor(tt.score), "score %v", tt.score)
	}
}

func TestRankContribution(t *testing.T) {
	// Best of 5 scores 100, worst scores 20.
	best := rankContribution(contracts.Float(1), 5)
	require.NotNil(t, best)
	assert.InDelta(t, 100, *best, 1e-9)

	worst := rankContribution(contracts.Float(5), 5)
	require.NotNil(t, worst)
	assert.InDelta(t, 20, *worst, 1e-9)

	// Fractional (tied) ranks interpolate.
	tied := rankContribution(contracts.Float(2.5), 5)
	require.NotNil(t, tied)
	assert.InDelta(t, 70, *tied, 1e-9)

	assert.Nil(t, rankContribution(nil, 5))
	assert.Nil(t, rankContribution(contracts.Float(1), 0))
}

func TestScoreFullComponents(t *testing.T) {
	s, err := NewScorer(defaultWeights(), logger.NewNop())
	require.NoError(t, err)

	ranks := map[string]*contracts.RankSet{
		"TOP": {
			MagicFormula:  contracts.Float(1),
			FCFYield:      contracts.Float(1),
			DebtToEquity:  contracts.Float(1),
			RevenueGrowth: contracts.Float(1),
			GrossMargin:   contracts.Float(1),
		},
		"BOTTOM": {
			MagicFormula:  contracts.Float(2),
			FCFYield:      contracts.Float(2),
			DebtToEquity:  contracts.Float(2),
			RevenueGrowth: contracts.Float(2),
			GrossMargin:   contracts.Float(2),
		},
	}
	piotroski := map[string]int{"TOP": 9, "BOTTOM": 0}

	results := s.Score(ranks, piotroski)
	require.Len(t, results, 2)

	// TOP: every rank contribution is 100, Piotroski 100 -> composite 100.
	assert.InDelta(t, 100, results["TOP"].CompositeScore, 1e-9)
	assert.Equal(t, contracts.SignalBuy, results["TOP"].Signal)

	// BOTTOM: every rank contribution is 50, Piotroski 0.
	// 0.75*50 + 0.25*0 = 37.5
	assert.InDelta(t, 37.5, results["BOTTOM"].CompositeScore, 1e-9)
	assert.Equal(t, contracts.SignalHold, results["BOTTOM"].Signal)
}

func TestScoreRenormalizesMissingComponents(t *testing.T) {
	s, err := NewScorer(defaultWeights(), logger.NewNop())
	require.NoError(t, err)

	// Only the Magic Formula rank and the Piotroski score are available;
	// their weights (0.30, 0.25) are renormalized to sum to 1.
	ranks := map[string]*contracts.RankSet{
		"PARTIAL": {MagicFormula: contracts.Float(1)},
	}
	piotroski := map[string]int{"PARTIAL": 0}

	results := s.Score(ranks, piotroski)

	// (0.30*100 + 0.25*0) / 0.55
	assert.InDelta(t, 30.0/0.55, results["PARTIAL"].CompositeScore, 1e-9)
}

func TestScoreNoComponents(t *testing.T) {
	s, err := NewScorer(defaultWeights(), logger.NewNop())
	require.NoError(t, err)

	ranks := map[string]*contracts.RankSet{"EMPTY": {}}
	results := s.Score(ranks, map[string]int{})

	require.Contains(t, results, "EMPTY")
	assert.Equal(t, 0.0, results["EMPTY"].CompositeScore)
	assert.Equal(t, contracts.SignalSell, results["EMPTY"].Signal)
}

func TestScoreAlwaysInRange(t *testing.T) {
	s, err := NewScorer(defaultWeights(), logger.NewNop())
	require.NoError(t, err)

	ranks := map[string]*contracts.RankSet{}
	piotroski := map[string]int{}
	for i, symbol := range []string{"A", "B", "C", "D", "E"} {
		rank := float64(i + 1)
		ranks[symbol] = &contracts.RankSet{
			MagicFormula:  contracts.Float(rank),
			FCFYield:      contracts.Float(rank),
			DebtToEquity:  contracts.Float(6 - rank),
			RevenueGrowth: contracts.Float(rank),
			GrossMargin:   contracts.Float(6 - rank),
		}
		piotroski[symbol] = i * 2
	}

	for symbol, r := range s.Score(ranks, piotroski) {
		assert.GreaterOrEqual(t, r.CompositeScore, 0.0, symbol)
		assert.LessOrEqual(t, r.CompositeScore, 100.0, symbol)
	}
}
