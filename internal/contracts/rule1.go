package contracts

// Rule1Annual is one fiscal year of Rule #1 metrics for a ticker,
// with year-over-year growth against the previous fiscal year.
type Rule1Annual struct {
	FiscalYear int

	ROICPct       *float64
	BVPS          *float64
	EPS           *float64
	RevenueMil    *float64
	FCFMil        *float64
	AvgSharePrice *float64
	AvgPE         *float64

	ROICYoY    *float64
	BVPSYoY    *float64
	EPSYoY     *float64
	RevenueYoY *float64
	FCFYoY     *float64
	PriceYoY   *float64
	PEYoY      *float64
}

// Rule1Summary is the per-ticker, per-analysis-date summary: compound
// growth rates over the full annual range and over the most recent span,
// trailing-twelve-month levels, and point-in-time balance sheet ratios.
type Rule1Summary struct {
	YearsOfData int

	ROICCAGRFull    *float64
	BVPSCAGRFull    *float64
	EPSCAGRFull     *float64
	RevenueCAGRFull *float64
	FCFCAGRFull     *float64
	PriceCAGRFull   *float64
	PECAGRFull      *float64

	ROICCAGRRecent    *float64
	BVPSCAGRRecent    *float64
	EPSCAGRRecent     *float64
	RevenueCAGRRecent *float64
	FCFCAGRRecent     *float64
	PriceCAGRRecent   *float64
	PECAGRRecent      *float64

	ROICTTM       *float64
	BVPSTTM       *float64
	EPSTTM        *float64
	RevenueTTMMil *float64
	FCFTTMMil     *float64
	PriceCurrent  *float64
	PETTM         *float64

	ROAPct           *float64
	ROEPct           *float64
	DividendsTTM     *float64
	DividendYieldPct *float64
	TotalLiabilities *float64
	DebtToEquity     *float64
	CurrentRatio     *float64
	QuickRatio       *float64
}
