package ranking

import (
	"sort"

	"github.com/wonny/stock-analyzer/internal/contracts"
	"github.com/wonny/stock-analyzer/pkg/logger"
)

// Direction says which way a metric is economically attractive.
type Direction int

const (
	// Ascending: lower raw value is more attractive (valuation multiples, leverage).
	Ascending Direction = iota
	// Descending: higher raw value is more attractive (yields, quality, growth).
	Descending
)

// Ranker computes cross-sectional ranks for the current run only.
// A rank for a metric is defined solely relative to the instruments that
// have a non-nil value for that metric; excluded instruments do not shift
// the others' ranks. Ties receive the average of the positions they would
// occupy, so equal inputs always produce equal ranks.
type Ranker struct {
	logger *logger.Logger
}

// NewRanker creates a new cross-sectional ranker
func NewRanker(log *logger.Logger) *Ranker {
	return &Ranker{logger: log}
}

// Rank computes a RankSet for every instrument in the run. Metrics with
// no valid instruments simply yield no ranks; downstream scoring treats
// them as absent.
func (r *Ranker) Rank(sets []*contracts.MetricSet) map[string]*contracts.RankSet {
	ranks := make(map[string]*contracts.RankSet, len(sets))
	for _, m := range sets {
		ranks[m.Symbol] = &contracts.RankSet{}
	}

	eyRanks := RankValues(collect(sets, func(m *contracts.MetricSet) *float64 { return m.EarningsYield }), Descending)
	fcfRanks := RankValues(collect(sets, func(m *contracts.MetricSet) *float64 { return m.FCFYield }), Descending)
	roicRanks := RankValues(collect(sets, func(m *contracts.MetricSet) *float64 { return m.ROIC }), Descending)
	deRanks := RankValues(collect(sets, func(m *contracts.MetricSet) *float64 { return m.DebtToEquity }), Ascending)
	rgRanks := RankValues(collect(sets, func(m *contracts.MetricSet) *float64 { return m.RevenueGrowth }), Descending)
	gmRanks := RankValues(collect(sets, func(m *contracts.MetricSet) *float64 { return m.GrossMargin }), Descending)

	for symbol, rs := range ranks {
		rs.EarningsYield = lookup(eyRanks, symbol)
		rs.FCFYield = lookup(fcfRanks, symbol)
		rs.ROIC = lookup(roicRanks, symbol)
		rs.DebtToEquity = lookup(deRanks, symbol)
		rs.RevenueGrowth = lookup(rgRanks, symbol)
		rs.GrossMargin = lookup(gmRanks, symbol)
	}

	// Magic Formula: sum of ROIC rank and earnings-yield rank, re-ranked
	// ascending (a lower sum is more attractive). Only instruments present
	// in both underlying rankings participate.
	combined := make(map[string]float64)
	for symbol := range roicRanks {
		if eyRank, ok := eyRanks[symbol]; ok {
			combined[symbol] = roicRanks[symbol] + eyRank
		}
	}
	for symbol, rank := range RankValues(combined, Ascending) {
		ranks[symbol].MagicFormula = contracts.Float(rank)
	}

	r.logger.WithFields(map[string]interface{}{
		"instruments":  len(sets),
		"with_ey":      len(eyRanks),
		"with_roic":    len(roicRanks),
		"magic_ranked": len(combined),
	}).Info("Cross-sectional ranking completed")

	return ranks
}

// RankValues assigns 1-based average ranks to the given symbol->value
// map in the requested direction. Equal values receive the average of
// the positions they would occupy (two instruments tied for positions
// 2 and 3 both receive 2.5).
func RankValues(values map[string]float64, dir Direction) map[string]float64 {
	type entry struct {
		symbol string
		value  float64
	}

	entries := make([]entry, 0, len(values))
	for symbol, value := range values {
		entries = append(entries, entry{symbol, value})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].value != entries[j].value {
			if dir == Ascending {
				return entries[i].value < entries[j].value
			}
			return entries[i].value > entries[j].value
		}
		// Deterministic order within ties; the averaged rank makes the
		// tie order irrelevant to the result.
		return entries[i].symbol < entries[j].symbol
	})

	ranks := make(map[string]float64, len(entries))
	for i := 0; i < len(entries); {
		j := i
		for j < len(entries) && entries[j].value == entries[i].value {
			j++
		}
		// Positions i+1 .. j are tied; all receive their average.
		avg := float64(i+1+j) / 2.0
		for k := i; k < j; k++ {
			ranks[entries[k].symbol] = avg
		}
		i = j
	}

	return ranks
}

// collect extracts the non-nil values of one metric across the run.
func collect(sets []*contracts.MetricSet, get func(*contracts.MetricSet) *float64) map[string]float64 {
	values := make(map[string]float64)
	for _, m := range sets {
		if v := get(m); v != nil {
			values[m.Symbol] = *v
		}
	}
	return values
}

func lookup(ranks map[string]float64, symbol string) *float64 {
	if rank, ok := ranks[symbol]; ok {
		return contracts.Float(rank)
	}
	return nil
}
