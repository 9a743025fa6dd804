package contracts

// MetricSet holds the derived per-instrument metrics for one run.
// Nil means the input was missing or the computation was undefined
// (for example a non-positive denominator).
type MetricSet struct {
	Symbol string

	Price           *float64
	MarketCap       *float64
	EnterpriseValue *float64

	// Valuation
	TrailingPE    *float64
	ForwardPE     *float64
	PriceToBook   *float64
	EVToEBITDA    *float64
	EarningsYield *float64
	FCFYield      *float64

	// Quality
	ROIC            *float64
	ROE             *float64
	ROA             *float64
	GrossMargin     *float64
	OperatingMargin *float64
	NetMargin       *float64

	// Health
	DebtToEquity *float64
	CurrentRatio *float64

	// Growth
	RevenueGrowth  *float64
	EarningsGrowth *float64

	// ROICFromROE marks that ROIC could not be computed from statements
	// and the reported ROE was used instead.
	ROICFromROE bool
}

// RankSet holds cross-sectional ranks for one instrument within one run.
// Ranks are 1-based, fractional on ties (average-rank), and lower is
// more attractive. Nil means the instrument had no value for that metric
// and was excluded from the ranking.
type RankSet struct {
	EarningsYield *float64
	FCFYield      *float64
	ROIC          *float64
	DebtToEquity  *float64
	RevenueGrowth *float64
	GrossMargin   *float64

	// MagicFormula ranks the sum of the ROIC and earnings-yield ranks,
	// ascending. Defined only for instruments present in both rankings.
	MagicFormula *float64
}

// PiotroskiResult holds the nine binary financial-strength tests.
// A test whose required prior-period datum is missing evaluates to false.
type PiotroskiResult struct {
	// Profitability
	PositiveROA              bool
	PositiveOperatingCash    bool
	ImprovingROA             bool
	CashFlowExceedsNetIncome bool

	// Leverage and liquidity
	DecreasingLongTermDebt bool
	ImprovingCurrentRatio  bool
	NoShareIssuance        bool

	// Efficiency
	ImprovingGrossMargin   bool
	ImprovingAssetTurnover bool
}

// Score counts the passed tests. Always in [0, 9].
func (p PiotroskiResult) Score() int {
	score := 0
	for _, ok := range []bool{
		p.PositiveROA,
		p.PositiveOperatingCash,
		p.ImprovingROA,
		p.CashFlowExceedsNetIncome,
		p.DecreasingLongTermDebt,
		p.ImprovingCurrentRatio,
		p.NoShareIssuance,
		p.ImprovingGrossMargin,
		p.ImprovingAssetTurnover,
	} {
		if ok {
			score++
		}
	}
	return score
}
