package rule1

import "math"

// CAGR computes the compound annual growth rate (end/start)^(1/years) - 1.
// Returns nil unless start and end are positive and years is positive:
// a sign change makes the geometric rate meaningless.
func CAGR(start, end *float64, years int) *float64 {
	if start == nil || end == nil || years <= 0 {
		return nil
	}
	if *start <= 0 || *end <= 0 {
		return nil
	}
	v := math.Pow(*end / *start, 1.0/float64(years)) - 1.0
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// YoY computes period-over-period growth (curr-prior)/|prior|.
// Returns nil when either side is missing or the prior value is zero.
func YoY(curr, prior *float64) *float64 {
	if curr == nil || prior == nil || *prior == 0 {
		return nil
	}
	v := (*curr - *prior) / math.Abs(*prior)
	return &v
}
