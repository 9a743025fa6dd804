package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied in order by Migrate. Statements are idempotent so
// migrate can run before every scheduled analysis without coordination.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS instruments (
		symbol          VARCHAR(10) PRIMARY KEY,
		name            VARCHAR(255),
		sector          VARCHAR(100),
		industry        VARCHAR(100),
		updated_at      TIMESTAMP DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS stock_metrics (
		id                  SERIAL PRIMARY KEY,
		instrument_symbol   VARCHAR(10) NOT NULL REFERENCES instruments(symbol),
		calc_date           DATE NOT NULL,
		price               NUMERIC,
		market_cap          NUMERIC,
		enterprise_value    NUMERIC,
		trailing_pe         NUMERIC,
		forward_pe          NUMERIC,
		price_to_book       NUMERIC,
		ev_to_ebitda        NUMERIC,
		earnings_yield      NUMERIC,
		fcf_yield           NUMERIC,
		roic                NUMERIC,
		roic_from_roe       BOOLEAN DEFAULT FALSE,
		roe                 NUMERIC,
		roa                 NUMERIC,
		gross_margin        NUMERIC,
		operating_margin    NUMERIC,
		net_margin          NUMERIC,
		debt_to_equity      NUMERIC,
		current_ratio       NUMERIC,
		revenue_growth      NUMERIC,
		earnings_growth     NUMERIC,
		piotroski_score     INTEGER,
		magic_formula_rank  NUMERIC,
		composite_score     NUMERIC,
		signal              VARCHAR(4),
		updated_at          TIMESTAMP DEFAULT NOW(),
		UNIQUE(instrument_symbol, calc_date)
	)`,

	`CREATE TABLE IF NOT EXISTS rule1_annual (
		id                      SERIAL PRIMARY KEY,
		ticker                  VARCHAR(10) NOT NULL,
		fiscal_year             INTEGER NOT NULL,
		roic_pct                NUMERIC,
		book_value_per_share    NUMERIC,
		earnings_per_share      NUMERIC,
		revenue_mil             NUMERIC,
		fcf_mil                 NUMERIC,
		avg_share_price         NUMERIC,
		avg_pe                  NUMERIC,
		roic_yoy                NUMERIC,
		bvps_yoy                NUMERIC,
		eps_yoy                 NUMERIC,
		revenue_yoy             NUMERIC,
		fcf_yoy                 NUMERIC,
		price_yoy               NUMERIC,
		pe_yoy                  NUMERIC,
		updated_at              TIMESTAMP DEFAULT NOW(),
		UNIQUE(ticker, fiscal_year)
	)`,

	`CREATE TABLE IF NOT EXISTS rule1_summary (
		id                      SERIAL PRIMARY KEY,
		ticker                  VARCHAR(10) NOT NULL,
		calc_date               DATE NOT NULL,
		years_of_data           INTEGER,
		roic_cagr_full          NUMERIC,
		bvps_cagr_full          NUMERIC,
		eps_cagr_full           NUMERIC,
		revenue_cagr_full       NUMERIC,
		fcf_cagr_full           NUMERIC,
		price_cagr_full         NUMERIC,
		pe_cagr_full            NUMERIC,
		roic_cagr_recent        NUMERIC,
		bvps_cagr_recent        NUMERIC,
		eps_cagr_recent         NUMERIC,
		revenue_cagr_recent     NUMERIC,
		fcf_cagr_recent         NUMERIC,
		price_cagr_recent       NUMERIC,
		pe_cagr_recent          NUMERIC,
		roic_ttm                NUMERIC,
		bvps_ttm                NUMERIC,
		eps_ttm                 NUMERIC,
		revenue_ttm_mil         NUMERIC,
		fcf_ttm_mil             NUMERIC,
		price_current           NUMERIC,
		pe_ttm                  NUMERIC,
		roa_pct                 NUMERIC,
		roe_pct                 NUMERIC,
		dividends_ttm           NUMERIC,
		dividend_yield_pct      NUMERIC,
		total_liabilities       NUMERIC,
		debt_to_equity          NUMERIC,
		current_ratio           NUMERIC,
		quick_ratio             NUMERIC,
		updated_at              TIMESTAMP DEFAULT NOW(),
		UNIQUE(ticker, calc_date)
	)`,
}

// Migrate applies the schema. Safe to run repeatedly.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
