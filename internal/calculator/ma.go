package calculator

import (
	"errors"

	talib "github.com/markcheno/go-talib"
)

// ErrInsufficientData is returned when a series is too short for an indicator.
var ErrInsufficientData = errors.New("not enough data")

// CalculateSMA computes the simple moving average of the last `period` prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, ErrInsufficientData
	}
	if period == 1 {
		return prices[len(prices)-1], nil
	}
	sma := talib.Sma(prices, period)
	return sma[len(sma)-1], nil
}
