package calculator

import (
	"errors"

	"github.com/rs/zerolog/log"

	"NiftySentinel/internal/model"
)

const (
	rsiPeriod  = 14
	overbought = 70.0
	oversold   = 30.0
)

// CalculateTechnicals computes RSI14, SMA50 and SMA200 for every series.
// Indicators that lack history are stored as model.NotComputed.
func CalculateTechnicals(history map[model.Symbol]model.PriceSeries) model.TechnicalSet {
	set := make(model.TechnicalSet, len(history)*3)
	for sym, s := range history {
		closes := validCloses(s)
		set[model.TechnicalKey{Symbol: sym, Indicator: model.IndicatorRSI14}] = reading(CalculateRSI(closes, rsiPeriod))
		set[model.TechnicalKey{Symbol: sym, Indicator: model.IndicatorSMA50}] = reading(CalculateSMA(closes, 50))
		set[model.TechnicalKey{Symbol: sym, Indicator: model.IndicatorSMA200}] = reading(CalculateSMA(closes, 200))
	}
	return set
}

func reading(v float64, err error) model.Reading {
	if err != nil {
		if !errors.Is(err, ErrInsufficientData) {
			log.Warn().Err(err).Msg("indicator calculation failed")
		}
		return model.NotComputed
	}
	return model.Computed(Round2(v))
}

// AssessHealth classifies the index's RSI zone and its trend against SMA200.
func AssessHealth(index model.Symbol, prices model.PriceMap, ts model.TechnicalSet) model.TechnicalHealth {
	h := model.TechnicalHealth{
		Symbol:  index,
		Price:   prices[index],
		RSI:     ts.Get(index, model.IndicatorRSI14),
		SMA50:   ts.Get(index, model.IndicatorSMA50),
		SMA200:  ts.Get(index, model.IndicatorSMA200),
		RSIZone: model.ZoneUnknown,
		Trend:   model.TrendUnknown,
	}

	if h.RSI.Valid {
		switch {
		case h.RSI.Value > overbought:
			h.RSIZone = model.ZoneOverbought
		case h.RSI.Value < oversold:
			h.RSIZone = model.ZoneOversold
		default:
			h.RSIZone = model.ZoneNeutral
		}
	}

	if h.SMA200.Valid && h.Price != 0 {
		if h.Price > h.SMA200.Value {
			h.Trend = model.TrendBull
		} else {
			h.Trend = model.TrendBear
		}
	}
	return h
}
