package scoring

import (
	"github.com/wonny/stock-analyzer/internal/contracts"
	"github.com/wonny/stock-analyzer/pkg/config"
	"github.com/wonny/stock-analyzer/pkg/logger"
)

// Scorer combines ranks and the Piotroski score into a single 0-100
// composite and a discrete BUY/HOLD/SELL signal, using a weight vector
// validated once at construction.
type Scorer struct {
	weights config.Weights
	logger  *logger.Logger
}

// Result is the composite outcome for one instrument.
type Result struct {
	Symbol         string
	CompositeScore float64
	Signal         contracts.Signal
}

// Signal thresholds, inclusive at the boundaries.
const (
	BuyThreshold  = 70.0
	SellThreshold = 30.0
)

// NewScorer validates the weight vector and creates a scorer. An invalid
// vector is a fatal configuration error, not a per-instrument failure.
func NewScorer(weights config.Weights, log *logger.Logger) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, &contracts.ConfigError{Reason: err.Error()}
	}
	return &Scorer{weights: weights, logger: log}, nil
}

// Score computes composites for every ranked instrument. Components a
// given instrument lacks are excluded from its weighted sum and the
// remaining weights renormalized for that instrument only, so a missing
// rank reduces information, never biases the scale.
func (s *Scorer) Score(
	ranks map[string]*contracts.RankSet,
	piotroski map[string]int,
) map[string]*Result {
	sizes := universeSizes(ranks)
	results := make(map[string]*Result, len(ranks))

	for symbol, rs := range ranks {
		var weightedSum, weightTotal float64

		add := func(weight float64, contribution *float64) {
			if contribution == nil {
				return
			}
			weightedSum += weight * *contribution
			weightTotal += weight
		}

		add(s.weights.MagicFormula, rankContribution(rs.MagicFormula, sizes.magicFormula))
		add(s.weights.FCFYield, rankContribution(rs.FCFYield, sizes.fcfYield))
		add(s.weights.DebtEquity, rankContribution(rs.DebtToEquity, sizes.debtToEquity))
		add(s.weights.RevenueGrowth, rankContribution(rs.RevenueGrowth, sizes.revenueGrowth))
		add(s.weights.GrossMargin, rankContribution(rs.GrossMargin, sizes.grossMargin))

		if score, ok := piotroski[symbol]; ok {
			add(s.weights.Piotroski, contracts.Float(float64(score)/9.0*100.0))
		}

		composite := 0.0
		if weightTotal > 0 {
			composite = clamp(weightedSum/weightTotal, 0, 100)
		}

		results[symbol] = &Result{
			Symbol:         symbol,
			CompositeScore: composite,
			Signal:         SignalFor(composite),
		}
	}

	return results
}

// SignalFor maps a composite score to a trading signal. Boundaries are
// inclusive: 70 is a BUY, 30 is a SELL.
func SignalFor(composite float64) contracts.Signal {
	switch {
	case composite >= BuyThreshold:
		return contracts.SignalBuy
	case composite <= SellThreshold:
		return contracts.SignalSell
	default:
		return contracts.SignalHold
	}
}

// rankContribution converts a 1-based rank within a universe of size n
// to a 0-100 contribution where rank 1 (most attractive) scores 100.
func rankContribution(rank *float64, n int) *float64 {
	if rank == nil || n < 1 {
		return nil
	}
	return contracts.Float((float64(n) - *rank + 1) / float64(n) * 100.0)
}

type metricSizes struct {
	magicFormula  int
	fcfYield      int
	debtToEquity  int
	revenueGrowth int
	grossMargin   int
}

func universeSizes(ranks map[string]*contracts.RankSet) metricSizes {
	var sizes metricSizes
	for _, rs := range ranks {
		if rs.MagicFormula != nil {
			sizes.magicFormula++
		}
		if rs.FCFYield != nil {
			sizes.fcfYield++
		}
		if rs.DebtToEquity != nil {
			sizes.debtToEquity++
		}
		if rs.RevenueGrowth != nil {
			sizes.revenueGrowth++
		}
		if rs.GrossMargin != nil {
			sizes.grossMargin++
		}
	}
	return sizes
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
