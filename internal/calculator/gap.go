package calculator

import "NiftySentinel/internal/model"

// DefaultFallbackClose stands in for the prior index close when the provider has none.
const DefaultFallbackClose = 24000.0

// PriorClose reads the index close from prices, substituting fallback when it
// is absent or exactly zero.
func PriorClose(prices model.PriceMap, index model.Symbol, fallback float64) float64 {
	if fallback == 0 {
		fallback = DefaultFallbackClose
	}
	if v, ok := prices[index]; ok && v != 0 {
		return v
	}
	return fallback
}

// CalculateGap derives the implied opening gap from a futures quote.
func CalculateGap(quote float64, prices model.PriceMap, index model.Symbol, fallback float64) model.GapMetrics {
	prior := PriorClose(prices, index, fallback)
	points := quote - prior
	return model.GapMetrics{
		Points:     points,
		Percent:    points / prior * 100,
		Quote:      quote,
		PriorClose: prior,
	}
}
