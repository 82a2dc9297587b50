package model

import (
	"fmt"
	"time"
)

// ChangeMap maps a symbol to its percent change between the latest two valid closes.
// 0.0 doubles as the "insufficient data" sentinel.
type ChangeMap map[Symbol]float64

// PriceMap maps a symbol to its latest valid close, 0.0 when missing.
type PriceMap map[Symbol]float64

// Indicator names a technical indicator.
type Indicator string

const (
	IndicatorRSI14  Indicator = "RSI14"
	IndicatorSMA50  Indicator = "SMA50"
	IndicatorSMA200 Indicator = "SMA200"
)

// Reading is a computed indicator value. Valid is false when there was not
// enough history, so callers can tell "not computed" apart from a real zero.
type Reading struct {
	Value float64
	Valid bool
}

// NotComputed is the zero Reading.
var NotComputed = Reading{}

// Computed wraps a real value.
func Computed(v float64) Reading { return Reading{Value: v, Valid: true} }

func (r Reading) String() string {
	if !r.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", r.Value)
}

// TechnicalKey addresses one indicator of one symbol.
type TechnicalKey struct {
	Symbol    Symbol
	Indicator Indicator
}

// TechnicalSet holds computed indicators.
type TechnicalSet map[TechnicalKey]Reading

// Get returns the reading for (sym, ind), NotComputed when absent.
func (t TechnicalSet) Get(sym Symbol, ind Indicator) Reading {
	if t == nil {
		return NotComputed
	}
	return t[TechnicalKey{Symbol: sym, Indicator: ind}]
}

// GapMetrics describes the implied opening gap of the index.
type GapMetrics struct {
	Points     float64
	Percent    float64
	Quote      float64
	PriorClose float64
}

// Severity grades a verdict.
type Severity string

const (
	SeverityBullish      Severity = "bullish"
	SeverityMildPositive Severity = "mild-positive"
	SeverityNeutral      Severity = "neutral"
	SeverityCaution      Severity = "caution"
	SeverityBearish      Severity = "bearish"
)

// Verdict is the output of the decision engine.
type Verdict struct {
	Label     string
	Severity  Severity
	Rationale string
	Rule      string // name of the rule that fired, empty for the default
}

// QuoteSource tells where the futures quote used for the gap came from.
type QuoteSource string

const (
	QuoteManual   QuoteSource = "manual"
	QuoteScraped  QuoteSource = "scraped"
	QuoteFallback QuoteSource = "fallback"
)

// Evaluation is everything a presentation layer may consume from one run.
type Evaluation struct {
	ID          string
	RuleSet     string
	Verdict     Verdict
	Gap         GapMetrics
	QuoteSource QuoteSource
	Changes     ChangeMap
	Prices      PriceMap
	Technicals  TechnicalSet
	EvaluatedAt time.Time
}

// RSIZone classifies an RSI reading.
type RSIZone string

const (
	ZoneOverbought RSIZone = "overbought"
	ZoneOversold   RSIZone = "oversold"
	ZoneNeutral    RSIZone = "neutral"
	ZoneUnknown    RSIZone = "unknown"
)

// Trend classifies price against its 200-day average.
type Trend string

const (
	TrendBull    Trend = "bull"
	TrendBear    Trend = "bear"
	TrendUnknown Trend = "unknown"
)

// TechnicalHealth summarises the index's momentum and long-term trend.
type TechnicalHealth struct {
	Symbol  Symbol
	Price   float64
	RSI     Reading
	SMA50   Reading
	SMA200  Reading
	RSIZone RSIZone
	Trend   Trend
}
