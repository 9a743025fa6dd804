package contracts

import (
	"context"
	"time"
)

// FundamentalsProvider supplies raw per-instrument financial facts.
// The transport behind it is an external concern; the engine only
// depends on this interface.
type FundamentalsProvider interface {
	// Fetch returns the fundamentals for one symbol. A *FetchError is
	// returned when the provider has no usable data for the symbol.
	Fetch(ctx context.Context, symbol string) (*Fundamentals, error)
}

// SnapshotRepository persists run results. Writes are upserts by natural
// key: instruments by symbol, snapshots by (symbol, calc_date). Running
// the engine twice for the same date with the same inputs is observably
// a no-op.
type SnapshotRepository interface {
	UpsertInstrument(ctx context.Context, inst Instrument) error
	UpsertSnapshot(ctx context.Context, snap *Snapshot) error
}

// Rule1Repository persists Rule #1 analysis results: one row per
// (ticker, fiscal_year) for the annual series and one per
// (ticker, calc_date) for the summary.
type Rule1Repository interface {
	UpsertAnnual(ctx context.Context, symbol string, rows []Rule1Annual) error
	UpsertSummary(ctx context.Context, symbol string, calcDate time.Time, s *Rule1Summary) error
}
