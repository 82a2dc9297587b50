package notifier

import (
	"fmt"
	"html"
	"strings"

	"NiftySentinel/internal/model"
	"NiftySentinel/internal/strategy"
)

var severityIcon = map[model.Severity]string{
	model.SeverityBullish:      "🟢",
	model.SeverityMildPositive: "🟩",
	model.SeverityNeutral:      "⚪",
	model.SeverityCaution:      "🟠",
	model.SeverityBearish:      "🔴",
}

// SeverityIcon returns the colour marker for a verdict severity.
func SeverityIcon(s model.Severity) string {
	if icon, ok := severityIcon[s]; ok {
		return icon
	}
	return "⚪"
}

var watchlist = []model.Symbol{
	model.SymbolINDA, model.SymbolEWW, model.SymbolHDB, model.SymbolIBN, model.SymbolINFY,
	model.SymbolCrude, model.SymbolUS10Y, model.SymbolDollar, model.SymbolNasdaq, model.SymbolIndiaVIX,
}

// FormatVerdict formats an evaluation into a Telegram HTML message.
func FormatVerdict(ev *model.Evaluation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 <b>NiftySentinel pre-open</b> | %s | %s\n\n",
		ev.EvaluatedAt.Format("2006-01-02 15:04"), strings.ToUpper(ev.RuleSet))

	fmt.Fprintf(&b, "%s <b>%s</b>\n", SeverityIcon(ev.Verdict.Severity), html.EscapeString(ev.Verdict.Label))
	fmt.Fprintf(&b, "<i>%s</i>\n\n", html.EscapeString(ev.Verdict.Rationale))

	fmt.Fprintf(&b, "GIFT Nifty: %.2f (%s)\n", ev.Gap.Quote, ev.QuoteSource)
	fmt.Fprintf(&b, "Prior close: %.2f\n", ev.Gap.PriorClose)
	fmt.Fprintf(&b, "Gap: %+.0f pts (%+.2f%%)\n\n", ev.Gap.Points, ev.Gap.Percent)

	b.WriteString("🌍 <b>Overnight cues:</b>\n")
	for _, sym := range watchlist {
		if _, ok := ev.Changes[sym]; !ok {
			continue
		}
		fmt.Fprintf(&b, "  %s: %.2f (%+.2f%%)\n", sym, ev.Prices[sym], ev.Changes[sym])
	}

	if ev.Technicals != nil {
		idx := model.SymbolNifty
		fmt.Fprintf(&b, "\n📈 <b>Technicals (%s):</b>\n", idx)
		fmt.Fprintf(&b, "  RSI14: %s | SMA50: %s | SMA200: %s\n",
			ev.Technicals.Get(idx, model.IndicatorRSI14),
			ev.Technicals.Get(idx, model.IndicatorSMA50),
			ev.Technicals.Get(idx, model.IndicatorSMA200))
	}
	return b.String()
}

// FormatHealth formats the index technical-health view.
func FormatHealth(h model.TechnicalHealth) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📈 <b>Technical health</b> | %s\n\n", h.Symbol)
	if h.Price != 0 {
		fmt.Fprintf(&b, "Price: %.2f\n", h.Price)
	} else {
		b.WriteString("Price: n/a\n")
	}
	fmt.Fprintf(&b, "RSI14: %s (%s)\n", h.RSI, h.RSIZone)
	fmt.Fprintf(&b, "SMA50: %s\n", h.SMA50)
	fmt.Fprintf(&b, "SMA200: %s\n", h.SMA200)
	fmt.Fprintf(&b, "Trend: %s\n", h.Trend)
	return b.String()
}

// FormatRuleSets lists the registered rule sets and their rule order.
func FormatRuleSets(sets []*strategy.RuleSet) string {
	var b strings.Builder
	b.WriteString("📋 <b>Rule sets</b>\n")
	for _, rs := range sets {
		fmt.Fprintf(&b, "\n<b>%s</b> %s: %s\n", strings.ToUpper(rs.Version), rs.Name, html.EscapeString(rs.Description))
		names := make([]string, 0, len(rs.Rules)+1)
		for _, r := range rs.Rules {
			names = append(names, r.Name)
		}
		names = append(names, rs.Default.Name)
		fmt.Fprintf(&b, "  %s\n", strings.Join(names, " → "))
	}
	return b.String()
}

// FormatError formats an evaluation failure.
func FormatError(what string, err error) string {
	return fmt.Sprintf("❌ <b>%s failed</b>\n%s", html.EscapeString(what), html.EscapeString(err.Error()))
}
