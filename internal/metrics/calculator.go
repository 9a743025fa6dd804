package metrics

import (
	"errors"
	"math"

	"github.com/wonny/stock-analyzer/internal/contracts"
	"github.com/wonny/stock-analyzer/pkg/logger"
)

// Calculator turns raw provider fundamentals into a derived MetricSet,
// one instrument at a time. It has no side effects and no shared state:
// a single instrument's failure never affects another.
type Calculator struct {
	logger *logger.Logger
}

// NewCalculator creates a new metric calculator
func NewCalculator(log *logger.Logger) *Calculator {
	return &Calculator{logger: log}
}

// Calculate derives the MetricSet for one instrument. It returns a
// *contracts.FetchError when the provider data is unusable (no price);
// individual metrics whose computation is undefined become nil and the
// instrument otherwise proceeds.
func (c *Calculator) Calculate(f *contracts.Fundamentals) (*contracts.MetricSet, error) {
	if f == nil || sanitize(f.Price) == nil {
		return nil, &contracts.FetchError{
			Symbol: symbolOf(f),
			Err:    errors.New("no market price available"),
		}
	}

	m := &contracts.MetricSet{
		Symbol:          f.Symbol,
		Price:           sanitize(f.Price),
		MarketCap:       sanitize(f.MarketCap),
		EnterpriseValue: sanitize(f.EnterpriseValue),

		// Ratios already reported by the provider, passed through.
		TrailingPE:      sanitize(f.TrailingPE),
		ForwardPE:       sanitize(f.ForwardPE),
		PriceToBook:     sanitize(f.PriceToBook),
		EVToEBITDA:      sanitize(f.EVToEBITDA),
		ROE:             sanitize(f.ROE),
		ROA:             sanitize(f.ROA),
		GrossMargin:     sanitize(f.GrossMargin),
		OperatingMargin: sanitize(f.OperatingMargin),
		NetMargin:       sanitize(f.NetMargin),
		DebtToEquity:    sanitize(f.DebtToEquity),
		CurrentRatio:    sanitize(f.CurrentRatio),
		RevenueGrowth:   sanitize(f.RevenueGrowth),
		EarningsGrowth:  sanitize(f.EarningsGrowth),
	}

	m.EarningsYield = c.earningsYield(f)
	m.FCFYield = c.fcfYield(f)
	m.ROIC, m.ROICFromROE = c.roic(f)

	return m, nil
}

// earningsYield = EBITDA / enterprise value; nil if EV <= 0.
func (c *Calculator) earningsYield(f *contracts.Fundamentals) *float64 {
	ebitda := sanitize(f.EBITDA)
	ev := sanitize(f.EnterpriseValue)
	if ebitda == nil || ev == nil {
		return nil
	}
	if *ev <= 0 {
		c.logSkip(f.Symbol, "earnings_yield", "enterprise value is not positive")
		return nil
	}
	return finite(*ebitda / *ev)
}

// fcfYield = free cash flow / market cap; nil if market cap <= 0.
func (c *Calculator) fcfYield(f *contracts.Fundamentals) *float64 {
	fcf := sanitize(f.FreeCashFlow)
	mc := sanitize(f.MarketCap)
	if fcf == nil || mc == nil {
		return nil
	}
	if *mc <= 0 {
		c.logSkip(f.Symbol, "fcf_yield", "market cap is not positive")
		return nil
	}
	return finite(*fcf / *mc)
}

// roic = EBIT / (total assets - current liabilities - cash) from the most
// recent annual statement. Missing cash is treated as zero. When the
// invested capital is not positive or statement facts are missing, the
// reported ROE is used instead and the result is flagged as a fallback.
func (c *Calculator) roic(f *contracts.Fundamentals) (*float64, bool) {
	if stmt := f.Current(); stmt != nil {
		ebit := sanitize(stmt.EBIT)
		assets := sanitize(stmt.TotalAssets)
		liabilities := sanitize(stmt.CurrentLiabilities)
		if ebit != nil && assets != nil && liabilities != nil {
			cash := 0.0
			if v := sanitize(stmt.Cash); v != nil {
				cash = *v
			}
			investedCapital := *assets - *liabilities - cash
			if investedCapital > 0 {
				return finite(*ebit / investedCapital), false
			}
			c.logSkip(f.Symbol, "roic", "invested capital is not positive")
		}
	}

	roe := sanitize(f.ROE)
	if roe == nil {
		return nil, false
	}
	c.logger.WithField("symbol", f.Symbol).Debug("ROIC unavailable from statements, falling back to ROE")
	return roe, true
}

func (c *Calculator) logSkip(symbol, metric, reason string) {
	cerr := &contracts.CalculationError{Symbol: symbol, Metric: metric, Reason: reason}
	c.logger.WithField("symbol", symbol).Debug(cerr.Error())
}

// sanitize returns nil for NaN/Inf values, passes through everything else.
func sanitize(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return finite(*v)
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func symbolOf(f *contracts.Fundamentals) string {
	if f == nil {
		return ""
	}
	return f.Symbol
}
