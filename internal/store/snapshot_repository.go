package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/stock-analyzer/internal/contracts"
)

// SnapshotRepository implements contracts.SnapshotRepository on Postgres.
// All writes are upserts keyed on the natural key, so re-running the same
// calc date overwrites cleanly instead of duplicating rows.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository creates a new snapshot repository.
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

// UpsertInstrument writes the dimension row for one security. Latest
// profile values win; no history is kept.
func (r *SnapshotRepository) UpsertInstrument(ctx context.Context, inst contracts.Instrument) error {
	query := `
		INSERT INTO instruments (symbol, name, sector, industry, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (symbol) DO UPDATE SET
			name = EXCLUDED.name,
			sector = EXCLUDED.sector,
			industry = EXCLUDED.industry,
			updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query, inst.Symbol, inst.Name, inst.Sector, inst.Industry)
	if err != nil {
		return &contracts.PersistenceError{Op: "upsert instrument", Err: err}
	}
	return nil
}

// UpsertSnapshot writes one (symbol, calc_date) metrics row. Conflicting
// rows are fully overwritten column by column.
func (r *SnapshotRepository) UpsertSnapshot(ctx context.Context, snap *contracts.Snapshot) error {
	query := `
		INSERT INTO stock_metrics (
			instrument_symbol, calc_date,
			price, market_cap, enterprise_value,
			trailing_pe, forward_pe, price_to_book, ev_to_ebitda,
			earnings_yield, fcf_yield,
			roic, roic_from_roe, roe, roa,
			gross_margin, operating_margin, net_margin,
			debt_to_equity, current_ratio,
			revenue_growth, earnings_growth,
			piotroski_score, magic_formula_rank, composite_score, signal,
			updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26,
			NOW()
		)
		ON CONFLICT (instrument_symbol, calc_date) DO UPDATE SET
			price = EXCLUDED.price,
			market_cap = EXCLUDED.market_cap,
			enterprise_value = EXCLUDED.enterprise_value,
			trailing_pe = EXCLUDED.trailing_pe,
			forward_pe = EXCLUDED.forward_pe,
			price_to_book = EXCLUDED.price_to_book,
			ev_to_ebitda = EXCLUDED.ev_to_ebitda,
			earnings_yield = EXCLUDED.earnings_yield,
			fcf_yield = EXCLUDED.fcf_yield,
			roic = EXCLUDED.roic,
			roic_from_roe = EXCLUDED.roic_from_roe,
			roe = EXCLUDED.roe,
			roa = EXCLUDED.roa,
			gross_margin = EXCLUDED.gross_margin,
			operating_margin = EXCLUDED.operating_margin,
			net_margin = EXCLUDED.net_margin,
			debt_to_equity = EXCLUDED.debt_to_equity,
			current_ratio = EXCLUDED.current_ratio,
			revenue_growth = EXCLUDED.revenue_growth,
			earnings_growth = EXCLUDED.earnings_growth,
			piotroski_score = EXCLUDED.piotroski_score,
			magic_formula_rank = EXCLUDED.magic_formula_rank,
			composite_score = EXCLUDED.composite_score,
			signal = EXCLUDED.signal,
			updated_at = NOW()
	`

	m := snap.Metrics
	_, err := r.pool.Exec(ctx, query,
		snap.Symbol, snap.CalcDate,
		m.Price, m.MarketCap, m.EnterpriseValue,
		m.TrailingPE, m.ForwardPE, m.PriceToBook, m.EVToEBITDA,
		m.EarningsYield, m.FCFYield,
		m.ROIC, m.ROICFromROE, m.ROE, m.ROA,
		m.GrossMargin, m.OperatingMargin, m.NetMargin,
		m.DebtToEquity, m.CurrentRatio,
		m.RevenueGrowth, m.EarningsGrowth,
		snap.PiotroskiScore, snap.Ranks.MagicFormula, snap.CompositeScore, string(snap.Signal),
	)
	if err != nil {
		return &contracts.PersistenceError{Op: "upsert snapshot", Err: err}
	}
	return nil
}
