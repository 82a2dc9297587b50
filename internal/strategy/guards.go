package strategy

import (
	"fmt"
	"math"

	"NiftySentinel/internal/model"
)

// Building blocks shared by the rule sets. Thresholds are passed in so each
// version keeps its own tuning while the guard shapes stay in one place.

func changeBelow(sym model.Symbol, limit float64) func(Signals) bool {
	return func(s Signals) bool { return s.Change(sym) < limit }
}

func changeAbove(sym model.Symbol, limit float64) func(Signals) bool {
	return func(s Signals) bool { return s.Change(sym) > limit }
}

func gapAbove(limit float64) func(Signals) bool {
	return func(s Signals) bool { return s.GapPoints() > limit }
}

func gapBelow(limit float64) func(Signals) bool {
	return func(s Signals) bool { return s.GapPoints() < limit }
}

func all(guards ...func(Signals) bool) func(Signals) bool {
	return func(s Signals) bool {
		for _, g := range guards {
			if !g(s) {
				return false
			}
		}
		return true
	}
}

func oilSpike(limit float64) Rule {
	return Rule{
		Name:     "oil_spike",
		Label:    "NEGATIVE (Oil Spike)",
		Severity: model.SeverityBearish,
		When:     changeAbove(model.SymbolCrude, limit),
		Explain: func(s Signals) string {
			return fmt.Sprintf("Crude Oil surged %.2f%% (> %.1f%%). Inflationary pressure for India.",
				s.Change(model.SymbolCrude), limit)
		},
	}
}

func yieldsSpike(label string, sev model.Severity) Rule {
	return Rule{
		Name:     "yields_rising",
		Label:    label,
		Severity: sev,
		When:     changeAbove(model.SymbolUS10Y, 3.0),
		Explain: func(s Signals) string {
			return fmt.Sprintf("US 10Y yield jumped %.2f%% to %.2f. FIIs often sell Emerging Markets.",
				s.Change(model.SymbolUS10Y), s.Price(model.SymbolUS10Y))
		},
	}
}

func riskOff(limit float64) Rule {
	return Rule{
		Name:     "risk_off",
		Label:    "BEARISH (Risk Off)",
		Severity: model.SeverityBearish,
		When:     changeBelow(model.SymbolEWW, limit),
		Explain: func(s Signals) string {
			return fmt.Sprintf("Mexico (EWW) crashed %.2f%%. Global funds are exiting risky assets.",
				s.Change(model.SymbolEWW))
		},
	}
}

func hdfcDrag() Rule {
	return Rule{
		Name:     "bank_drag",
		Label:    "WEAK OPEN (Bank Drag)",
		Severity: model.SeverityCaution,
		When:     changeBelow(model.SymbolHDB, -1.5),
		Explain: func(s Signals) string {
			return fmt.Sprintf("HDFC Bank ADR (HDB) is down %.2f%% in the US.", math.Abs(s.Change(model.SymbolHDB)))
		},
	}
}

func oilCoolingBuy() Rule {
	return Rule{
		Name:     "strong_buy",
		Label:    "STRONG BUY",
		Severity: model.SeverityBullish,
		When: all(
			changeAbove(model.SymbolINDA, 0.5),
			changeBelow(model.SymbolCrude, 0),
			gapAbove(40),
		),
		Explain: func(s Signals) string {
			return fmt.Sprintf("US bought India (INDA %+.2f%%) + Oil cooling (%.2f%%) + GIFT Nifty up %.0f pts.",
				s.Change(model.SymbolINDA), s.Change(model.SymbolCrude), s.GapPoints())
		},
	}
}

func gapUp(limit float64, label string, sev model.Severity) Rule {
	return Rule{
		Name:     "gap_up",
		Label:    label,
		Severity: sev,
		When:     gapAbove(limit),
		Explain: func(s Signals) string {
			return fmt.Sprintf("GIFT Nifty indicates a %.0f pt gap up (%+.2f%%).", s.GapPoints(), s.Gap.Percent)
		},
	}
}

func gapDown(limit float64, label string) Rule {
	return Rule{
		Name:     "gap_down",
		Label:    label,
		Severity: model.SeverityBearish,
		When:     gapBelow(limit),
		Explain: func(s Signals) string {
			return fmt.Sprintf("GIFT Nifty indicates a %.0f pt gap down (%+.2f%%).", s.GapPoints(), s.Gap.Percent)
		},
	}
}

func flatRange(limit float64) Rule {
	return Rule{
		Name:     "flat",
		Label:    "FLAT / RANGEBOUND",
		Severity: model.SeverityNeutral,
		When:     func(s Signals) bool { return math.Abs(s.GapPoints()) <= limit },
		Explain: func(s Signals) string {
			return fmt.Sprintf("Gap is small (%.0f pts, within ±%.0f). Expect a flat start.", s.GapPoints(), limit)
		},
	}
}

func neutral(reason string) Rule {
	return Rule{
		Name:     "neutral",
		Label:    "NEUTRAL",
		Severity: model.SeverityNeutral,
		Explain: func(s Signals) string {
			return fmt.Sprintf("%s Gap %.0f pts, INDA %+.2f%%.", reason, s.GapPoints(), s.Change(model.SymbolINDA))
		},
	}
}
