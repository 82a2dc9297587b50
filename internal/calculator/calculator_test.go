package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NiftySentinel/internal/model"
)

func series(sym model.Symbol, closes ...float64) model.PriceSeries {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	pts := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		pts[i] = model.PricePoint{Time: start.AddDate(0, 0, i), Close: c}
	}
	return model.PriceSeries{Symbol: sym, Points: pts}
}

func rising(n int, base float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = base + float64(i)
	}
	return out
}

func TestNormalize_PercentChangeRounded(t *testing.T) {
	changes, prices := Normalize(
		[]model.Symbol{model.SymbolINDA},
		map[model.Symbol]model.PriceSeries{model.SymbolINDA: series(model.SymbolINDA, 90, 95, 100)},
	)
	assert.Equal(t, 5.26, changes[model.SymbolINDA])
	assert.Equal(t, 100.0, prices[model.SymbolINDA])
}

func TestNormalize_SentinelForShortSeries(t *testing.T) {
	symbols := []model.Symbol{model.SymbolEWW, model.SymbolHDB}
	changes, prices := Normalize(symbols, map[model.Symbol]model.PriceSeries{
		model.SymbolEWW: series(model.SymbolEWW, 51.2),
		model.SymbolHDB: series(model.SymbolHDB),
	})
	for _, sym := range symbols {
		assert.Equal(t, 0.0, changes[sym], sym)
		assert.Equal(t, 0.0, prices[sym], sym)
	}
}

func TestNormalize_TotalUnderPartialFailure(t *testing.T) {
	symbols := []model.Symbol{
		model.SymbolINDA, model.SymbolEWW, model.SymbolHDB, model.SymbolIBN,
		model.SymbolCrude, model.SymbolNifty,
	}
	raw := map[model.Symbol]model.PriceSeries{
		model.SymbolINDA:  series(model.SymbolINDA, 50, 51),
		model.SymbolHDB:   series(model.SymbolHDB, 0, 60),            // zero prev
		model.SymbolIBN:   series(model.SymbolIBN, math.NaN(), 30, 31), // NaN dropped
		model.SymbolNifty: series(model.SymbolNifty, 24000, 24240),
	}
	changes, prices := Normalize(symbols, raw)

	require.Len(t, changes, len(symbols))
	require.Len(t, prices, len(symbols))
	assert.Equal(t, 2.0, changes[model.SymbolINDA])
	assert.Equal(t, 0.0, changes[model.SymbolHDB])
	assert.Equal(t, 0.0, prices[model.SymbolHDB])
	assert.Equal(t, 3.33, changes[model.SymbolIBN])
	assert.Equal(t, 0.0, changes[model.SymbolCrude])
	assert.Equal(t, 1.0, changes[model.SymbolNifty])
	assert.Equal(t, 24240.0, prices[model.SymbolNifty])
}

func TestNormalize_EmptyProvider(t *testing.T) {
	symbols := []model.Symbol{model.SymbolINDA, model.SymbolNifty}
	changes, prices := Normalize(symbols, nil)
	assert.Equal(t, model.ChangeMap{model.SymbolINDA: 0, model.SymbolNifty: 0}, changes)
	assert.Equal(t, model.PriceMap{model.SymbolINDA: 0, model.SymbolNifty: 0}, prices)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 5.26, Round2(5.263157))
	assert.Equal(t, -1.24, Round2(-1.2449))
	assert.Equal(t, 0.0, Round2(0))
}

func TestCalculateGap(t *testing.T) {
	tests := []struct {
		name        string
		quote       float64
		prices      model.PriceMap
		wantPoints  float64
		wantPercent float64
		wantPrior   float64
	}{
		{"zero close uses fallback", 24100, model.PriceMap{model.SymbolNifty: 0}, 100, 0.4167, 24000},
		{"missing close uses fallback", 24100, model.PriceMap{}, 100, 0.4167, 24000},
		{"real close", 25100, model.PriceMap{model.SymbolNifty: 25000}, 100, 0.4, 25000},
		{"gap down", 24900, model.PriceMap{model.SymbolNifty: 25000}, -100, -0.4, 25000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := CalculateGap(tt.quote, tt.prices, model.SymbolNifty, DefaultFallbackClose)
			assert.InDelta(t, tt.wantPoints, g.Points, 1e-9)
			assert.InDelta(t, tt.wantPercent, g.Percent, 1e-4)
			assert.Equal(t, tt.wantPrior, g.PriorClose)
			assert.Equal(t, tt.quote, g.Quote)
		})
	}
}

func TestPriorClose_ZeroFallbackArgUsesDefault(t *testing.T) {
	assert.Equal(t, DefaultFallbackClose, PriorClose(nil, model.SymbolNifty, 0))
}

func TestCalculateRSI_MonotonicRiseIs100(t *testing.T) {
	rsi, err := CalculateRSI(rising(20, 100), 14)
	require.NoError(t, err)
	assert.Equal(t, 100.0, rsi)
}

func TestCalculateRSI_MonotonicFallIs0(t *testing.T) {
	closes := rising(20, 100)
	for i, j := 0, len(closes)-1; i < j; i, j = i+1, j-1 {
		closes[i], closes[j] = closes[j], closes[i]
	}
	rsi, err := CalculateRSI(closes, 14)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rsi)
}

func TestCalculateRSI_FlatIs50(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100
	}
	rsi, err := CalculateRSI(closes, 14)
	require.NoError(t, err)
	assert.Equal(t, 50.0, rsi)
}

func TestCalculateRSI_TrailingWindowOnly(t *testing.T) {
	// A crash outside the trailing window must not count.
	closes := append([]float64{200, 100}, rising(15, 100)...)
	rsi, err := CalculateRSI(closes, 14)
	require.NoError(t, err)
	assert.Equal(t, 100.0, rsi)
}

func TestCalculateRSI_Mixed(t *testing.T) {
	// 7 gains of +2 and 7 losses of -1: rs = 2, RSI = 66.67
	closes := []float64{100}
	for i := 0; i < 7; i++ {
		last := closes[len(closes)-1]
		closes = append(closes, last+2, last+1)
	}
	rsi, err := CalculateRSI(closes, 14)
	require.NoError(t, err)
	assert.InDelta(t, 66.6667, rsi, 1e-3)
}

func TestCalculateRSI_InsufficientHistory(t *testing.T) {
	_, err := CalculateRSI(rising(14, 100), 14)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCalculateSMA(t *testing.T) {
	sma, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, sma, 1e-9)

	_, err = CalculateSMA([]float64{1, 2}, 3)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = CalculateSMA([]float64{1, 2}, 0)
	assert.Error(t, err)
}

func TestCalculateTechnicals_NotComputedIsDistinct(t *testing.T) {
	ts := CalculateTechnicals(map[model.Symbol]model.PriceSeries{
		model.SymbolNifty: series(model.SymbolNifty, rising(60, 100)...),
	})

	rsi := ts.Get(model.SymbolNifty, model.IndicatorRSI14)
	assert.True(t, rsi.Valid)
	assert.Equal(t, 100.0, rsi.Value)

	sma50 := ts.Get(model.SymbolNifty, model.IndicatorSMA50)
	assert.True(t, sma50.Valid)
	assert.InDelta(t, 134.5, sma50.Value, 1e-9)

	assert.Equal(t, model.NotComputed, ts.Get(model.SymbolNifty, model.IndicatorSMA200))
	assert.Equal(t, model.NotComputed, ts.Get(model.SymbolINDA, model.IndicatorRSI14))
}

func TestAssessHealth(t *testing.T) {
	ts := model.TechnicalSet{
		{Symbol: model.SymbolNifty, Indicator: model.IndicatorRSI14}:  model.Computed(75),
		{Symbol: model.SymbolNifty, Indicator: model.IndicatorSMA200}: model.Computed(23000),
	}
	h := AssessHealth(model.SymbolNifty, model.PriceMap{model.SymbolNifty: 24000}, ts)
	assert.Equal(t, model.ZoneOverbought, h.RSIZone)
	assert.Equal(t, model.TrendBull, h.Trend)
	assert.False(t, h.SMA50.Valid)

	h = AssessHealth(model.SymbolNifty, model.PriceMap{model.SymbolNifty: 22000}, model.TechnicalSet{
		{Symbol: model.SymbolNifty, Indicator: model.IndicatorRSI14}:  model.Computed(25),
		{Symbol: model.SymbolNifty, Indicator: model.IndicatorSMA200}: model.Computed(23000),
	})
	assert.Equal(t, model.ZoneOversold, h.RSIZone)
	assert.Equal(t, model.TrendBear, h.Trend)

	h = AssessHealth(model.SymbolNifty, model.PriceMap{}, nil)
	assert.Equal(t, model.ZoneUnknown, h.RSIZone)
	assert.Equal(t, model.TrendUnknown, h.Trend)
}
