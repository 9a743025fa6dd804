package contracts

import "time"

// Signal is the discrete trading signal derived from the composite score.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalHold Signal = "HOLD"
	SignalSell Signal = "SELL"
)

// Snapshot is the persisted system of record: one row per
// (instrument, calc_date), fully overwritten on same-day re-runs.
type Snapshot struct {
	Symbol   string
	CalcDate time.Time

	Metrics MetricSet
	Ranks   RankSet

	PiotroskiScore int
	CompositeScore float64
	Signal         Signal
}
