package contracts

// Instrument is the dimension record for one listed security.
// Upserted every run; latest values win, no history is kept.
type Instrument struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
}

// Statement holds financial statement facts for one fiscal year.
// Pointer fields distinguish "not reported" from a reported zero.
type Statement struct {
	FiscalYear         int      `json:"fiscal_year"`
	EBIT               *float64 `json:"ebit,omitempty"`
	NetIncome          *float64 `json:"net_income,omitempty"`
	OperatingCashFlow  *float64 `json:"operating_cash_flow,omitempty"`
	FreeCashFlow       *float64 `json:"free_cash_flow,omitempty"`
	GrossProfit        *float64 `json:"gross_profit,omitempty"`
	Revenue            *float64 `json:"revenue,omitempty"`
	TotalAssets        *float64 `json:"total_assets,omitempty"`
	CurrentAssets      *float64 `json:"current_assets,omitempty"`
	CurrentLiabilities *float64 `json:"current_liabilities,omitempty"`
	TotalLiabilities   *float64 `json:"total_liabilities,omitempty"`
	LongTermDebt       *float64 `json:"long_term_debt,omitempty"`
	Cash               *float64 `json:"cash,omitempty"`
	Inventory          *float64 `json:"inventory,omitempty"`
	Equity             *float64 `json:"equity,omitempty"`
	SharesOutstanding  *float64 `json:"shares_outstanding,omitempty"`
	BasicEPS           *float64 `json:"basic_eps,omitempty"`
	AvgSharePrice      *float64 `json:"avg_share_price,omitempty"`
}

// Fundamentals is everything the provider reports for one symbol:
// the company profile, market snapshot, ratios the provider already
// computes, and annual statement facts (newest first).
type Fundamentals struct {
	Instrument

	Price           *float64 `json:"price,omitempty"`
	MarketCap       *float64 `json:"market_cap,omitempty"`
	EnterpriseValue *float64 `json:"enterprise_value,omitempty"`
	EBITDA          *float64 `json:"ebitda,omitempty"`
	FreeCashFlow    *float64 `json:"free_cash_flow,omitempty"`

	// Ratios reported by the provider, passed through as-is.
	TrailingPE      *float64 `json:"trailing_pe,omitempty"`
	ForwardPE       *float64 `json:"forward_pe,omitempty"`
	PriceToBook     *float64 `json:"price_to_book,omitempty"`
	EVToEBITDA      *float64 `json:"ev_to_ebitda,omitempty"`
	ROE             *float64 `json:"roe,omitempty"`
	ROA             *float64 `json:"roa,omitempty"`
	GrossMargin     *float64 `json:"gross_margin,omitempty"`
	OperatingMargin *float64 `json:"operating_margin,omitempty"`
	NetMargin       *float64 `json:"net_margin,omitempty"`
	DebtToEquity    *float64 `json:"debt_to_equity,omitempty"`
	CurrentRatio    *float64 `json:"current_ratio,omitempty"`
	RevenueGrowth   *float64 `json:"revenue_growth,omitempty"`
	EarningsGrowth  *float64 `json:"earnings_growth,omitempty"`

	// Trailing-twelve-month extras used by the Rule #1 analyzer.
	BookValue     *float64 `json:"book_value,omitempty"`
	TrailingEPS   *float64 `json:"trailing_eps,omitempty"`
	TotalRevenue  *float64 `json:"total_revenue,omitempty"`
	DividendRate  *float64 `json:"dividend_rate,omitempty"`
	DividendYield *float64 `json:"dividend_yield,omitempty"`

	// Statements holds annual statement facts, newest first.
	Statements []Statement `json:"statements,omitempty"`
}

// Current returns the most recent annual statement, or nil.
func (f *Fundamentals) Current() *Statement {
	if len(f.Statements) == 0 {
		return nil
	}
	return &f.Statements[0]
}

// Prior returns the statement one fiscal year before Current, or nil.
func (f *Fundamentals) Prior() *Statement {
	if len(f.Statements) < 2 {
		return nil
	}
	return &f.Statements[1]
}

// Float returns a pointer to v. Convenience for building Fundamentals literals.
func Float(v float64) *float64 {
	return &v
}
