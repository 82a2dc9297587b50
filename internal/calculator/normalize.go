package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"NiftySentinel/internal/model"
)

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// PercentChange returns (curr-prev)/prev*100 rounded to 2 decimals.
func PercentChange(prev, curr float64) (float64, error) {
	if prev == 0 {
		return 0, errors.New("previous close is zero")
	}
	chg := (curr - prev) / prev * 100
	if math.IsNaN(chg) || math.IsInf(chg, 0) {
		return 0, errors.New("change is not finite")
	}
	return Round2(chg), nil
}

// Normalize turns raw series into change and price maps with exactly one entry
// per requested symbol. A symbol that is missing, has fewer than two valid
// points, or fails to compute gets the 0.0 sentinel in both maps; it never
// affects the other symbols.
func Normalize(symbols []model.Symbol, series map[model.Symbol]model.PriceSeries) (model.ChangeMap, model.PriceMap) {
	changes := make(model.ChangeMap, len(symbols))
	prices := make(model.PriceMap, len(symbols))
	for _, sym := range symbols {
		chg, px, err := normalizeOne(series[sym])
		if err != nil {
			log.Debug().Str("symbol", string(sym)).Err(err).Msg("using sentinel for symbol")
		}
		changes[sym] = chg
		prices[sym] = px
	}
	return changes, prices
}

func normalizeOne(s model.PriceSeries) (chg, px float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			chg, px, err = 0, 0, fmt.Errorf("normalize panic: %v", r)
		}
	}()

	closes := validCloses(s)
	if len(closes) < 2 {
		return 0, 0, ErrInsufficientData
	}
	curr := closes[len(closes)-1]
	prev := closes[len(closes)-2]
	chg, err = PercentChange(prev, curr)
	if err != nil {
		return 0, 0, err
	}
	return chg, Round2(curr), nil
}

// validCloses drops non-finite closes the provider may have let through.
func validCloses(s model.PriceSeries) []float64 {
	closes := make([]float64, 0, len(s.Points))
	for _, p := range s.Points {
		if math.IsNaN(p.Close) || math.IsInf(p.Close, 0) {
			continue
		}
		closes = append(closes, p.Close)
	}
	return closes
}
