package contracts

import (
	"errors"
	"fmt"
)

// FetchError marks a per-instrument, recoverable failure: the provider had
// no usable data for the symbol. The instrument is excluded from the run.
type FetchError struct {
	Symbol string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// CalculationError marks a single derived metric whose computation was
// undefined (for example a non-positive denominator). The metric becomes
// nil; the instrument otherwise proceeds.
type CalculationError struct {
	Symbol string
	Metric string
	Reason string
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("calculate %s for %s: %s", e.Metric, e.Symbol, e.Reason)
}

// ConfigError is a run-level, fatal configuration failure detected at
// startup, before any work begins.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Reason)
}

// ErrEmptyDataset is returned when zero instruments survive to the ranking
// barrier. The run aborts and nothing is persisted.
var ErrEmptyDataset = errors.New("no instruments with valid data to rank")

// PersistenceError marks a storage write that failed after its single retry.
// The run is reported as fatally failed so the external scheduler retries it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
