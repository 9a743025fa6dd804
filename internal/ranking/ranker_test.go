package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stock-analyzer/internal/contracts"
	"github.com/wonny/stock-analyzer/pkg/logger"
)

func TestRankValuesAverageTies(t *testing.T) {
	// A and B tied below C; they occupy positions 2 and 3 and both
	// receive 2.5.
	values := map[string]float64{
		"A": 0.10,
		"B": 0.10,
		"C": 0.15,
	}

	ranks := RankValues(values, Descending)

	assert.Equal(t, 1.0, ranks["C"])
	assert.Equal(t, 2.5, ranks["A"])
	assert.Equal(t, 2.5, ranks["B"])
}

func TestRankValuesDirections(t *testing.T) {
	values := map[string]float64{
		"LOW":  1.0,
		"MID":  2.0,
		"HIGH": 3.0,
	}

	asc := RankValues(values, Ascending)
	assert.Equal(t, 1.0, asc["LOW"])
	assert.Equal(t, 3.0, asc["HIGH"])

	desc := RankValues(values, Descending)
	assert.Equal(t, 1.0, desc["HIGH"])
	assert.Equal(t, 3.0, desc["LOW"])
}

func TestRankValuesEmpty(t *testing.T) {
	ranks := RankValues(map[string]float64{}, Descending)
	assert.Empty(t, ranks)
}

func metricSet(symbol string, roic, ey *float64) *contracts.MetricSet {
	return &contracts.MetricSet{Symbol: symbol, ROIC: roic, EarningsYield: ey}
}

func TestRankExcludesNilValues(t *testing.T) {
	r := NewRanker(logger.NewNop())

	// E has no earnings yield and must not shift the others' ranks.
	sets := []*contracts.MetricSet{
		metricSet("A", nil, contracts.Float(0.12)),
		metricSet("B", nil, contracts.Float(0.10)),
		metricSet("C", nil, contracts.Float(0.08)),
		metricSet("D", nil, contracts.Float(0.06)),
		metricSet("E", nil, nil),
	}

	ranks := r.Rank(sets)

	require.NotNil(t, ranks["A"].EarningsYield)
	assert.Equal(t, 1.0, *ranks["A"].EarningsYield)
	require.NotNil(t, ranks["D"].EarningsYield)
	assert.Equal(t, 4.0, *ranks["D"].EarningsYield, "ranks run 1..4 over the non-nil subset")
	assert.Nil(t, ranks["E"].EarningsYield)
	assert.Nil(t, ranks["E"].MagicFormula)
}

func TestMagicFormulaCombinedRank(t *testing.T) {
	r := NewRanker(logger.NewNop())

	// ROIC {0.20, 0.15, 0.05} -> ROIC ranks {1, 2, 3}
	// EY   {0.08, 0.10, 0.12} -> EY ranks   {3, 2, 1}
	// Sums {4, 4, 4} -> all tied, average rank 2.
	sets := []*contracts.MetricSet{
		metricSet("A", contracts.Float(0.20), contracts.Float(0.08)),
		metricSet("B", contracts.Float(0.15), contracts.Float(0.10)),
		metricSet("C", contracts.Float(0.05), contracts.Float(0.12)),
	}

	ranks := r.Rank(sets)

	require.NotNil(t, ranks["A"].ROIC)
	assert.Equal(t, 1.0, *ranks["A"].ROIC)
	require.NotNil(t, ranks["A"].EarningsYield)
	assert.Equal(t, 3.0, *ranks["A"].EarningsYield)

	for _, symbol := range []string{"A", "B", "C"} {
		require.NotNil(t, ranks[symbol].MagicFormula, symbol)
		assert.Equal(t, 2.0, *ranks[symbol].MagicFormula, symbol)
	}
}

func TestMagicFormulaRequiresBothRankings(t *testing.T) {
	r := NewRanker(logger.NewNop())

	sets := []*contracts.MetricSet{
		metricSet("A", contracts.Float(0.20), contracts.Float(0.08)),
		metricSet("B", contracts.Float(0.15), nil), // no earnings yield
	}

	ranks := r.Rank(sets)

	assert.NotNil(t, ranks["A"].MagicFormula)
	assert.Nil(t, ranks["B"].MagicFormula)
}

func TestRankSingleInstrument(t *testing.T) {
	r := NewRanker(logger.NewNop())

	sets := []*contracts.MetricSet{
		metricSet("ONLY", contracts.Float(0.10), contracts.Float(0.05)),
	}

	ranks := r.Rank(sets)

	require.NotNil(t, ranks["ONLY"].ROIC)
	assert.Equal(t, 1.0, *ranks["ONLY"].ROIC)
	require.NotNil(t, ranks["ONLY"].MagicFormula)
	assert.Equal(t, 1.0, *ranks["ONLY"].MagicFormula)
}
