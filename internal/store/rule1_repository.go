package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/stock-analyzer/internal/contracts"
)

// Rule1Repository implements contracts.Rule1Repository on Postgres.
type Rule1Repository struct {
	pool *pgxpool.Pool
}

// NewRule1Repository creates a new Rule #1 repository.
func NewRule1Repository(pool *pgxpool.Pool) *Rule1Repository {
	return &Rule1Repository{pool: pool}
}

// UpsertAnnual writes one fiscal-year row per entry, keyed on
// (ticker, fiscal_year).
func (r *Rule1Repository) UpsertAnnual(ctx context.Context, symbol string, annual []contracts.Rule1Annual) error {
	query := `
		INSERT INTO rule1_annual (
			ticker, fiscal_year,
			roic_pct, book_value_per_share, earnings_per_share,
			revenue_mil, fcf_mil, avg_share_price, avg_pe,
			roic_yoy, bvps_yoy, eps_yoy, revenue_yoy, fcf_yoy, price_yoy, pe_yoy,
			updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			NOW()
		)
		ON CONFLICT (ticker, fiscal_year) DO UPDATE SET
			roic_pct = EXCLUDED.roic_pct,
			book_value_per_share = EXCLUDED.book_value_per_share,
			earnings_per_share = EXCLUDED.earnings_per_share,
			revenue_mil = EXCLUDED.revenue_mil,
			fcf_mil = EXCLUDED.fcf_mil,
			avg_share_price = EXCLUDED.avg_share_price,
			avg_pe = EXCLUDED.avg_pe,
			roic_yoy = EXCLUDED.roic_yoy,
			bvps_yoy = EXCLUDED.bvps_yoy,
			eps_yoy = EXCLUDED.eps_yoy,
			revenue_yoy = EXCLUDED.revenue_yoy,
			fcf_yoy = EXCLUDED.fcf_yoy,
			price_yoy = EXCLUDED.price_yoy,
			pe_yoy = EXCLUDED.pe_yoy,
			updated_at = NOW()
	`

	for _, a := range annual {
		_, err := r.pool.Exec(ctx, query,
			symbol, a.FiscalYear,
			a.ROICPct, a.BVPS, a.EPS,
			a.RevenueMil, a.FCFMil, a.AvgSharePrice, a.AvgPE,
			a.ROICYoY, a.BVPSYoY, a.EPSYoY, a.RevenueYoY, a.FCFYoY, a.PriceYoY, a.PEYoY,
		)
		if err != nil {
			return &contracts.PersistenceError{Op: "upsert rule1 annual", Err: err}
		}
	}
	return nil
}

// UpsertSummary writes the per-ticker summary row for the analysis date,
// keyed on (ticker, calc_date).
func (r *Rule1Repository) UpsertSummary(ctx context.Context, symbol string, calcDate time.Time, s *contracts.Rule1Summary) error {
	query := `
		INSERT INTO rule1_summary (
			ticker, calc_date, years_of_data,
			roic_cagr_full, bvps_cagr_full, eps_cagr_full,
			revenue_cagr_full, fcf_cagr_full, price_cagr_full, pe_cagr_full,
			roic_cagr_recent, bvps_cagr_recent, eps_cagr_recent,
			revenue_cagr_recent, fcf_cagr_recent, price_cagr_recent, pe_cagr_recent,
			roic_ttm, bvps_ttm, eps_ttm, revenue_ttm_mil,
			fcf_ttm_mil, price_current, pe_ttm,
			roa_pct, roe_pct, dividends_ttm, dividend_yield_pct,
			total_liabilities, debt_to_equity, current_ratio, quick_ratio,
			updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23, $24,
			$25, $26, $27, $28, $29, $30, $31, $32,
			NOW()
		)
		ON CONFLICT (ticker, calc_date) DO UPDATE SET
			years_of_data = EXCLUDED.years_of_data,
			roic_cagr_full = EXCLUDED.roic_cagr_full,
			bvps_cagr_full = EXCLUDED.bvps_cagr_full,
			eps_cagr_full = EXCLUDED.eps_cagr_full,
			revenue_cagr_full = EXCLUDED.revenue_cagr_full,
			fcf_cagr_full = EXCLUDED.fcf_cagr_full,
			price_cagr_full = EXCLUDED.price_cagr_full,
			pe_cagr_full = EXCLUDED.pe_cagr_full,
			roic_cagr_recent = EXCLUDED.roic_cagr_recent,
			bvps_cagr_recent = EXCLUDED.bvps_cagr_recent,
			eps_cagr_recent = EXCLUDED.eps_cagr_recent,
			revenue_cagr_recent = EXCLUDED.revenue_cagr_recent,
			fcf_cagr_recent = EXCLUDED.fcf_cagr_recent,
			price_cagr_recent = EXCLUDED.price_cagr_recent,
			pe_cagr_recent = EXCLUDED.pe_cagr_recent,
			roic_ttm = EXCLUDED.roic_ttm,
			bvps_ttm = EXCLUDED.bvps_ttm,
			eps_ttm = EXCLUDED.eps_ttm,
			revenue_ttm_mil = EXCLUDED.revenue_ttm_mil,
			fcf_ttm_mil = EXCLUDED.fcf_ttm_mil,
			price_current = EXCLUDED.price_current,
			pe_ttm = EXCLUDED.pe_ttm,
			roa_pct = EXCLUDED.roa_pct,
			roe_pct = EXCLUDED.roe_pct,
			dividends_ttm = EXCLUDED.dividends_ttm,
			dividend_yield_pct = EXCLUDED.dividend_yield_pct,
			total_liabilities = EXCLUDED.total_liabilities,
			debt_to_equity = EXCLUDED.debt_to_equity,
			current_ratio = EXCLUDED.current_ratio,
			quick_ratio = EXCLUDED.quick_ratio,
			updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		symbol, calcDate, s.YearsOfData,
		s.ROICCAGRFull, s.BVPSCAGRFull, s.EPSCAGRFull,
		s.RevenueCAGRFull, s.FCFCAGRFull, s.PriceCAGRFull, s.PECAGRFull,
		s.ROICCAGRRecent, s.BVPSCAGRRecent, s.EPSCAGRRecent,
		s.RevenueCAGRRecent, s.FCFCAGRRecent, s.PriceCAGRRecent, s.PECAGRRecent,
		s.ROICTTM, s.BVPSTTM, s.EPSTTM, s.RevenueTTMMil,
		s.FCFTTMMil, s.PriceCurrent, s.PETTM,
		s.ROAPct, s.ROEPct, s.DividendsTTM, s.DividendYieldPct,
		s.TotalLiabilities, s.DebtToEquity, s.CurrentRatio, s.QuickRatio,
	)
	if err != nil {
		return &contracts.PersistenceError{Op: "upsert rule1 summary", Err: err}
	}
	return nil
}
