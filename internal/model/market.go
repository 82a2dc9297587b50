package model

import "time"

// Symbol identifies a tradable instrument as understood by the market data provider.
type Symbol string

const (
	SymbolINDA     Symbol = "INDA"      // iShares MSCI India ETF
	SymbolEWW      Symbol = "EWW"       // iShares MSCI Mexico ETF, EM risk proxy
	SymbolHDB      Symbol = "HDB"       // HDFC Bank ADR
	SymbolIBN      Symbol = "IBN"       // ICICI Bank ADR
	SymbolINFY     Symbol = "INFY"      // Infosys ADR
	SymbolNifty    Symbol = "^NSEI"     // NIFTY 50
	SymbolCrude    Symbol = "CL=F"      // WTI crude futures
	SymbolUS10Y    Symbol = "^TNX"      // US 10Y yield
	SymbolDollar   Symbol = "DX-Y.NYB"  // US dollar index
	SymbolNasdaq   Symbol = "QQQ"       // Nasdaq 100 ETF
	SymbolIndiaVIX Symbol = "^INDIAVIX" // India VIX
)

// PricePoint is a single valid daily close.
type PricePoint struct {
	Time  time.Time
	Close float64
}

// PriceSeries holds the closes for one symbol in ascending time order.
// Points with unusable closes are dropped by the provider.
type PriceSeries struct {
	Symbol Symbol
	Points []PricePoint
}

// Closes returns the close prices in order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// Len returns the number of valid points.
func (s PriceSeries) Len() int { return len(s.Points) }

// Lookback selects how much trailing history a rule set asks the provider for.
type Lookback string

const (
	LookbackFiveDays  Lookback = "5d"
	LookbackSevenDays Lookback = "7d"
	LookbackOneYear   Lookback = "1y"
)
