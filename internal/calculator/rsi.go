package calculator

import "errors"

// CalculateRSI computes RSI from simple averages of the gains and losses over
// the trailing `period` day-over-day changes. Requires period+1 closes.
//
// No losses in the window yields 100; a window with no movement at all yields 50.
func CalculateRSI(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(closes) < period+1 {
		return 0, ErrInsufficientData
	}

	var avgGain, avgLoss float64
	for i := len(closes) - period; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change // make positive
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50.0, nil
		}
		return 100.0, nil
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs), nil
}
