package contracts

import (
	"time"
)

// InstrumentState tracks one instrument through a run.
// Fetched -> MetricsComputed -> Ranked -> Scored -> Persisted,
// or Failed at any stage prior to Ranked.
type InstrumentState string

const (
	StateFetched         InstrumentState = "fetched"
	StateMetricsComputed InstrumentState = "metrics_computed"
	StateRanked          InstrumentState = "ranked"
	StateScored          InstrumentState = "scored"
	StatePersisted       InstrumentState = "persisted"
	StateFailed          InstrumentState = "failed"
)

// RunState tracks the run overall.
type RunState string

const (
	RunCollecting RunState = "collecting"
	RunRanking    RunState = "ranking"
	RunScoring    RunState = "scoring"
	RunPersisting RunState = "persisting"
	RunDone       RunState = "done"
	RunAborted    RunState = "aborted"
)

// InstrumentResult is the per-instrument outcome of the collection phase:
// either a Fundamentals+MetricSet pair or a recorded failure. Failures never
// abort the run; the ranking barrier operates only on successes.
type InstrumentResult struct {
	Symbol       string
	State        InstrumentState
	Fundamentals *Fundamentals
	Metrics      *MetricSet
	Piotroski    PiotroskiResult
	Err          error
}

// Failed reports whether this instrument was excluded from the run.
func (r *InstrumentResult) Failed() bool {
	return r.State == StateFailed
}

// InstrumentFailure is one entry in the end-of-run exclusion list.
type InstrumentFailure struct {
	Symbol string
	Reason string
}

// RunSummary aggregates the outcome of one engine run.
type RunSummary struct {
	CalcDate time.Time
	State    RunState
	Duration time.Duration

	Succeeded int
	Failed    int
	Failures  []InstrumentFailure

	Buys  int
	Holds int
	Sells int
}
