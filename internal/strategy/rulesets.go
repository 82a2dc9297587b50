package strategy

import (
	"fmt"

	"NiftySentinel/internal/model"
)

var (
	baseSymbols = []model.Symbol{
		model.SymbolINDA, model.SymbolEWW, model.SymbolHDB,
		model.SymbolIBN, model.SymbolINFY, model.SymbolNifty,
	}
	macroSymbols = append(append([]model.Symbol{}, baseSymbols...),
		model.SymbolCrude, model.SymbolUS10Y, model.SymbolDollar, model.SymbolNasdaq)
	fullSymbols = append(append([]model.Symbol{}, baseSymbols...),
		model.SymbolCrude, model.SymbolUS10Y, model.SymbolIndiaVIX)
)

// V1 mirrors US trading in India ADRs/ETFs and Mexico, then buckets the gap at ±30.
var V1 = register(&RuleSet{
	Version:     "v1",
	Name:        "baseline",
	Description: "EWW, HDB/IBN and INDA cues with a ±30 pt gap bucket",
	Symbols:     baseSymbols,
	Lookback:    model.LookbackFiveDays,
	Rules: []Rule{
		{
			Name:     "risk_off",
			Label:    "BEARISH / CAUTION",
			Severity: model.SeverityBearish,
			When:     changeBelow(model.SymbolEWW, -1.0),
			Explain: func(s Signals) string {
				return fmt.Sprintf("Mexico (EWW) crashed %.2f%%. Global Risk-Off sentiment.", s.Change(model.SymbolEWW))
			},
		},
		{
			Name:     "bank_drag",
			Label:    "WEAK OPEN (Bank Drag)",
			Severity: model.SeverityCaution,
			When: func(s Signals) bool {
				return s.Change(model.SymbolHDB) < -1.5 || s.Change(model.SymbolIBN) < -1.5
			},
			Explain: func(s Signals) string {
				return fmt.Sprintf("Heavy selling in HDFC/ICICI ADRs in the US (HDB %.2f%%, IBN %.2f%%).",
					s.Change(model.SymbolHDB), s.Change(model.SymbolIBN))
			},
		},
		{
			Name:     "bullish",
			Label:    "BULLISH",
			Severity: model.SeverityBullish,
			When: all(
				changeAbove(model.SymbolINDA, 0.5),
				changeAbove(model.SymbolEWW, -0.5),
				gapAbove(50),
			),
			Explain: func(s Signals) string {
				return fmt.Sprintf("US bought India (INDA %+.2f%%) & global sentiment is stable (EWW %+.2f%%), gap %.0f pts.",
					s.Change(model.SymbolINDA), s.Change(model.SymbolEWW), s.GapPoints())
			},
		},
		{
			Name:     "fake_out",
			Label:    "FAKE OUT RISK",
			Severity: model.SeverityCaution,
			When:     all(gapAbove(40), changeBelow(model.SymbolINDA, -0.2)),
			Explain: func(s Signals) string {
				return fmt.Sprintf("GIFT Nifty is up %.0f pts, but US investors sold India (INDA %.2f%%).",
					s.GapPoints(), s.Change(model.SymbolINDA))
			},
		},
		gapUp(30, "MILD POSITIVE", model.SeverityMildPositive),
		gapDown(-30, "NEGATIVE"),
	},
	Default: neutral("Data inconclusive."),
})

// V2 puts oil and US yields ahead of the EM and bank cues and widens the gap bucket to ±40.
var V2 = register(&RuleSet{
	Version:     "v2",
	Name:        "macro-aware",
	Description: "oil > 2.5% and US 10Y > 3% ahead of EWW/HDB/INDA, ±40 pt gap bucket",
	Symbols:     macroSymbols,
	Lookback:    model.LookbackSevenDays,
	Rules: []Rule{
		oilSpike(2.5),
		yieldsSpike("CAUTION (Yields Rising)", model.SeverityCaution),
		riskOff(-1.5),
		hdfcDrag(),
		oilCoolingBuy(),
		gapUp(40, "POSITIVE GAP UP", model.SeverityMildPositive),
		gapDown(-40, "NEGATIVE GAP DOWN"),
	},
	Default: neutral("Market signals are mixed."),
})

// V3 keeps the V2 order with a tighter oil trigger, ±50 pt buckets and a flat bucket.
// The futures quote is scraped when not entered manually.
var V3 = register(&RuleSet{
	Version:     "v3",
	Name:        "auto-quote",
	Description: "V2 order, oil > 2%, ±50 pt gap bucket, FLAT within ±50, scraped quote",
	Symbols:     macroSymbols,
	Lookback:    model.LookbackSevenDays,
	AutoQuote:   true,
	Rules: []Rule{
		oilSpike(2.0),
		yieldsSpike("CAUTION (Yields Rising)", model.SeverityCaution),
		riskOff(-1.5),
		hdfcDrag(),
		oilCoolingBuy(),
		gapUp(50, "POSITIVE GAP UP", model.SeverityMildPositive),
		gapDown(-50, "NEGATIVE GAP DOWN"),
		flatRange(50),
	},
	Default: neutral("Signals are mixed or flat."),
})

// V4 adds India VIX as the top-priority guard and as the strong-buy condition.
var V4 = register(&RuleSet{
	Version:     "v4",
	Name:        "full-signal",
	Description: "India VIX panic first, then oil/yields, low-VIX strong buy, ±50 pt gap bucket, technicals",
	Symbols:     fullSymbols,
	Lookback:    model.LookbackOneYear,
	AutoQuote:   true,
	Technicals:  true,
	Rules: []Rule{
		{
			Name:     "vix_panic",
			Label:    "EXTREME CAUTION (Fear High)",
			Severity: model.SeverityBearish,
			When: func(s Signals) bool {
				return s.Price(model.SymbolIndiaVIX) > 16.0 && s.Change(model.SymbolIndiaVIX) > 5.0
			},
			Explain: func(s Signals) string {
				return fmt.Sprintf("India VIX spiked to %.2f (%+.2f%%). Fear is high, market may crash.",
					s.Price(model.SymbolIndiaVIX), s.Change(model.SymbolIndiaVIX))
			},
		},
		oilSpike(2.0),
		yieldsSpike("BEARISH (Yields)", model.SeverityCaution),
		{
			Name:     "strong_buy",
			Label:    "STRONG BUY",
			Severity: model.SeverityBullish,
			When: all(
				changeAbove(model.SymbolINDA, 0.5),
				func(s Signals) bool { return s.Price(model.SymbolIndiaVIX) < 13.0 },
				gapAbove(40),
			),
			Explain: func(s Signals) string {
				return fmt.Sprintf("Low fear (India VIX %.2f < 13) + strong global cues (INDA %+.2f%%, gap %.0f pts).",
					s.Price(model.SymbolIndiaVIX), s.Change(model.SymbolINDA), s.GapPoints())
			},
		},
		gapUp(50, "POSITIVE GAP UP", model.SeverityMildPositive),
		gapDown(-50, "NEGATIVE GAP DOWN"),
	},
	Default: neutral("Mixed Signals."),
})
