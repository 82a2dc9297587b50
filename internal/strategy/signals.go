package strategy

import "NiftySentinel/internal/model"

// Signals is the input bundle guards are evaluated over.
//
// Every lookup is total: a symbol or indicator missing from the maps reads as
// 0.0 (model.NotComputed for technicals), so a guard never fails on absent
// data and evaluation drifts toward the default verdict instead.
type Signals struct {
	Changes    model.ChangeMap
	Prices     model.PriceMap
	Technicals model.TechnicalSet
	Gap        model.GapMetrics
}

// Change returns the percent change of sym, 0 when unknown.
func (s Signals) Change(sym model.Symbol) float64 {
	return s.Changes[sym]
}

// Price returns the latest close of sym, 0 when unknown.
func (s Signals) Price(sym model.Symbol) float64 {
	return s.Prices[sym]
}

// Technical returns the indicator reading, model.NotComputed when unknown.
func (s Signals) Technical(sym model.Symbol, ind model.Indicator) model.Reading {
	return s.Technicals.Get(sym, ind)
}

// GapPoints returns the implied opening gap in index points.
func (s Signals) GapPoints() float64 {
	return s.Gap.Points
}
