package rule1

import (
	"errors"
	"sort"
	"time"

	"github.com/wonny/stock-analyzer/internal/contracts"
	"github.com/wonny/stock-analyzer/pkg/logger"
)

// Analyzer computes Phil Town Rule #1 metrics for one instrument from its
// annual statement history: per-year levels with year-over-year growth,
// compound growth rates over the full range and the most recent span, and
// trailing-twelve-month plus point-in-time snapshot values.
type Analyzer struct {
	logger *logger.Logger
}

// NewAnalyzer creates a new Rule #1 analyzer
func NewAnalyzer(log *logger.Logger) *Analyzer {
	return &Analyzer{logger: log}
}

// Analyze builds the annual series (oldest first) and the summary row for
// one instrument. A *contracts.FetchError is returned when the provider
// has no annual statement data at all.
func (a *Analyzer) Analyze(f *contracts.Fundamentals, calcDate time.Time) ([]contracts.Rule1Annual, *contracts.Rule1Summary, error) {
	if f == nil || len(f.Statements) == 0 {
		return nil, nil, &contracts.FetchError{
			Symbol: symbolOf(f),
			Err:    errors.New("no annual financial data available"),
		}
	}

	annual := a.buildAnnual(f)
	if len(annual) == 0 {
		return nil, nil, &contracts.FetchError{
			Symbol: f.Symbol,
			Err:    errors.New("no usable fiscal years in statement history"),
		}
	}

	summary := a.buildSummary(f, annual, calcDate)

	a.logger.WithFields(map[string]interface{}{
		"symbol": f.Symbol,
		"years":  len(annual),
	}).Debug("Rule #1 analysis completed")

	return annual, summary, nil
}

// buildAnnual extracts one row per fiscal year, oldest first, with YoY
// growth against the preceding year.
func (a *Analyzer) buildAnnual(f *contracts.Fundamentals) []contracts.Rule1Annual {
	stmts := make([]contracts.Statement, len(f.Statements))
	copy(stmts, f.Statements)
	sort.Slice(stmts, func(i, j int) bool {
		return stmts[i].FiscalYear < stmts[j].FiscalYear
	})

	rows := make([]contracts.Rule1Annual, 0, len(stmts))
	var prev *contracts.Rule1Annual

	for i := range stmts {
		stmt := &stmts[i]
		row := contracts.Rule1Annual{
			FiscalYear:    stmt.FiscalYear,
			ROICPct:       roicPct(stmt),
			BVPS:          bvps(stmt),
			EPS:           eps(stmt),
			RevenueMil:    inMillions(stmt.Revenue),
			FCFMil:        inMillions(stmt.FreeCashFlow),
			AvgSharePrice: stmt.AvgSharePrice,
		}
		row.AvgPE = avgPE(row.AvgSharePrice, row.EPS)

		if prev != nil {
			row.ROICYoY = YoY(row.ROICPct, prev.ROICPct)
			row.BVPSYoY = YoY(row.BVPS, prev.BVPS)
			row.EPSYoY = YoY(row.EPS, prev.EPS)
			row.RevenueYoY = YoY(row.RevenueMil, prev.RevenueMil)
			row.FCFYoY = YoY(row.FCFMil, prev.FCFMil)
			row.PriceYoY = YoY(row.AvgSharePrice, prev.AvgSharePrice)
			row.PEYoY = YoY(row.AvgPE, prev.AvgPE)
		}

		rows = append(rows, row)
		prev = &rows[len(rows)-1]
	}

	return rows
}

func (a *Analyzer) buildSummary(f *contracts.Fundamentals, annual []contracts.Rule1Annual, calcDate time.Time) *contracts.Rule1Summary {
	earliest := annual[0]
	latest := annual[len(annual)-1]
	yearsFull := latest.FiscalYear - earliest.FiscalYear

	// Recent span: second-to-last annual value to TTM.
	var secondToLast contracts.Rule1Annual
	yearsRecent := 0
	if len(annual) >= 2 {
		secondToLast = annual[len(annual)-2]
		yearsRecent = calcDate.Year() - secondToLast.FiscalYear
	}

	s := &contracts.Rule1Summary{
		YearsOfData: len(annual),

		ROICTTM:       roicTTM(f),
		BVPSTTM:       f.BookValue,
		EPSTTM:        f.TrailingEPS,
		RevenueTTMMil: inMillions(f.TotalRevenue),
		FCFTTMMil:     inMillions(f.FreeCashFlow),
		PriceCurrent:  f.Price,
		PETTM:         f.TrailingPE,

		ROAPct:           asPct(f.ROA),
		ROEPct:           asPct(f.ROE),
		DividendsTTM:     f.DividendRate,
		DividendYieldPct: asPct(f.DividendYield),
		DebtToEquity:     f.DebtToEquity,
		CurrentRatio:     f.CurrentRatio,
	}

	if stmt := f.Current(); stmt != nil {
		s.TotalLiabilities = stmt.TotalLiabilities
		s.QuickRatio = quickRatio(stmt)
	}

	s.ROICCAGRFull = CAGR(earliest.ROICPct, latest.ROICPct, yearsFull)
	s.BVPSCAGRFull = CAGR(earliest.BVPS, latest.BVPS, yearsFull)
	s.EPSCAGRFull = CAGR(earliest.EPS, latest.EPS, yearsFull)
	s.RevenueCAGRFull = CAGR(earliest.RevenueMil, latest.RevenueMil, yearsFull)
	s.FCFCAGRFull = CAGR(earliest.FCFMil, latest.FCFMil, yearsFull)
	s.PriceCAGRFull = CAGR(earliest.AvgSharePrice, latest.AvgSharePrice, yearsFull)
	s.PECAGRFull = CAGR(earliest.AvgPE, latest.AvgPE, yearsFull)

	s.ROICCAGRRecent = CAGR(secondToLast.ROICPct, s.ROICTTM, yearsRecent)
	s.BVPSCAGRRecent = CAGR(secondToLast.BVPS, s.BVPSTTM, yearsRecent)
	s.EPSCAGRRecent = CAGR(secondToLast.EPS, s.EPSTTM, yearsRecent)
	s.RevenueCAGRRecent = CAGR(secondToLast.RevenueMil, s.RevenueTTMMil, yearsRecent)
	s.FCFCAGRRecent = CAGR(secondToLast.FCFMil, s.FCFTTMMil, yearsRecent)
	s.PriceCAGRRecent = CAGR(secondToLast.AvgSharePrice, s.PriceCurrent, yearsRecent)
	s.PECAGRRecent = CAGR(secondToLast.AvgPE, s.PETTM, yearsRecent)

	return s
}

// PassesRule1 reports whether all four growth CAGRs meet the classic
// 10% bar. Instruments missing any of the four do not pass.
func PassesRule1(s *contracts.Rule1Summary) bool {
	for _, v := range []*float64{
		s.BVPSCAGRFull, s.EPSCAGRFull, s.RevenueCAGRFull, s.FCFCAGRFull,
	} {
		if v == nil || *v < 0.10 {
			return false
		}
	}
	return true
}

// roicPct computes ROIC for one fiscal year as a percentage.
func roicPct(stmt *contracts.Statement) *float64 {
	if stmt.EBIT == nil || stmt.TotalAssets == nil || stmt.CurrentLiabilities == nil {
		return nil
	}
	cash := 0.0
	if stmt.Cash != nil {
		cash = *stmt.Cash
	}
	investedCapital := *stmt.TotalAssets - *stmt.CurrentLiabilities - cash
	if investedCapital <= 0 {
		return nil
	}
	return contracts.Float(*stmt.EBIT / investedCapital * 100)
}

// roicTTM uses the latest statement, falling back to reported ROE.
func roicTTM(f *contracts.Fundamentals) *float64 {
	if stmt := f.Current(); stmt != nil {
		if v := roicPct(stmt); v != nil {
			return v
		}
	}
	return asPct(f.ROE)
}

func bvps(stmt *contracts.Statement) *float64 {
	if stmt.Equity == nil || stmt.SharesOutstanding == nil || *stmt.SharesOutstanding <= 0 {
		return nil
	}
	return contracts.Float(*stmt.Equity / *stmt.SharesOutstanding)
}

// eps prefers the reported figure, falling back to net income per share.
func eps(stmt *contracts.Statement) *float64 {
	if stmt.BasicEPS != nil {
		return stmt.BasicEPS
	}
	if stmt.NetIncome != nil && stmt.SharesOutstanding != nil && *stmt.SharesOutstanding > 0 {
		return contracts.Float(*stmt.NetIncome / *stmt.SharesOutstanding)
	}
	return nil
}

func avgPE(price, eps *float64) *float64 {
	if price == nil || eps == nil || *eps <= 0 {
		return nil
	}
	return contracts.Float(*price / *eps)
}

// quickRatio = (current assets - inventory) / current liabilities.
func quickRatio(stmt *contracts.Statement) *float64 {
	if stmt.CurrentAssets == nil || stmt.CurrentLiabilities == nil || *stmt.CurrentLiabilities <= 0 {
		return nil
	}
	inventory := 0.0
	if stmt.Inventory != nil {
		inventory = *stmt.Inventory
	}
	return contracts.Float((*stmt.CurrentAssets - inventory) / *stmt.CurrentLiabilities)
}

func inMillions(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return contracts.Float(*v / 1_000_000)
}

func asPct(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return contracts.Float(*v * 100)
}

func symbolOf(f *contracts.Fundamentals) string {
	if f == nil {
		return ""
	}
	return f.Symbol
}
