package piotroski

import (
	"github.com/wonny/stock-analyzer/internal/contracts"
	"github.com/wonny/stock-analyzer/pkg/logger"
)

// Evaluator computes the 9-test Piotroski F-Score from current versus
// prior-period statement facts. Any test whose required datum is missing
// evaluates to false; the evaluator never fails an instrument.
type Evaluator struct {
	logger *logger.Logger
}

// NewEvaluator creates a new Piotroski evaluator
func NewEvaluator(log *logger.Logger) *Evaluator {
	return &Evaluator{logger: log}
}

// Evaluate runs all nine tests for one instrument.
func (e *Evaluator) Evaluate(f *contracts.Fundamentals) contracts.PiotroskiResult {
	var result contracts.PiotroskiResult
	if f == nil {
		return result
	}

	curr := f.Current()
	prior := f.Prior()

	// Profitability (4 points)
	result.PositiveROA = isPositive(f.ROA)
	if curr != nil {
		result.PositiveOperatingCash = isPositive(curr.OperatingCashFlow)
		result.CashFlowExceedsNetIncome = exceeds(curr.OperatingCashFlow, curr.NetIncome)
	}
	if curr != nil && prior != nil {
		result.ImprovingROA = ratioImproved(
			curr.NetIncome, curr.TotalAssets,
			prior.NetIncome, prior.TotalAssets,
		)
	}

	// Leverage and liquidity (3 points)
	if curr != nil && prior != nil {
		result.DecreasingLongTermDebt = notIncreased(curr.LongTermDebt, prior.LongTermDebt)
		result.ImprovingCurrentRatio = ratioImproved(
			curr.CurrentAssets, curr.CurrentLiabilities,
			prior.CurrentAssets, prior.CurrentLiabilities,
		)
		result.NoShareIssuance = notIncreased(curr.SharesOutstanding, prior.SharesOutstanding)
	}

	// Operating efficiency (2 points)
	if curr != nil && prior != nil {
		result.ImprovingGrossMargin = ratioImproved(
			curr.GrossProfit, curr.Revenue,
			prior.GrossProfit, prior.Revenue,
		)
		result.ImprovingAssetTurnover = ratioImproved(
			curr.Revenue, curr.TotalAssets,
			prior.Revenue, prior.TotalAssets,
		)
	}

	e.logger.WithFields(map[string]interface{}{
		"symbol": f.Symbol,
		"score":  result.Score(),
	}).Debug("Piotroski F-Score evaluated")

	return result
}

func isPositive(v *float64) bool {
	return v != nil && *v > 0
}

// exceeds reports a > b with both present.
func exceeds(a, b *float64) bool {
	return a != nil && b != nil && *a > *b
}

// notIncreased reports curr <= prior with both present.
func notIncreased(curr, prior *float64) bool {
	return curr != nil && prior != nil && *curr <= *prior
}

// ratioImproved reports numC/denC > numP/denP, requiring all four
// operands present and strictly positive.
func ratioImproved(numC, denC, numP, denP *float64) bool {
	for _, v := range []*float64{numC, denC, numP, denP} {
		if v == nil || *v <= 0 {
			return false
		}
	}
	return *numC / *denC > *numP / *denP
}
