package notifier

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"NiftySentinel/internal/model"
	"NiftySentinel/internal/strategy"
)

// RenderEvaluation writes a terminal report of an evaluation.
func RenderEvaluation(w io.Writer, ev *model.Evaluation) error {
	fmt.Fprintf(w, "%s %s [%s]\n%s\n\n", SeverityIcon(ev.Verdict.Severity), ev.Verdict.Label,
		strings.ToUpper(ev.RuleSet), ev.Verdict.Rationale)

	table := tablewriter.NewWriter(w)
	table.Header("Symbol", "Last", "Change %")
	for _, sym := range watchlist {
		if _, ok := ev.Changes[sym]; !ok {
			continue
		}
		if err := table.Append(string(sym), fmt.Sprintf("%.2f", ev.Prices[sym]), fmt.Sprintf("%+.2f", ev.Changes[sym])); err != nil {
			return fmt.Errorf("append row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render cues: %w", err)
	}

	gap := tablewriter.NewWriter(w)
	gap.Header("Quote", "Source", "Prior close", "Gap pts", "Gap %")
	if err := gap.Append(
		fmt.Sprintf("%.2f", ev.Gap.Quote),
		string(ev.QuoteSource),
		fmt.Sprintf("%.2f", ev.Gap.PriorClose),
		fmt.Sprintf("%+.0f", ev.Gap.Points),
		fmt.Sprintf("%+.2f", ev.Gap.Percent),
	); err != nil {
		return fmt.Errorf("append gap: %w", err)
	}
	if err := gap.Render(); err != nil {
		return fmt.Errorf("render gap: %w", err)
	}
	return nil
}

// RenderHealth writes the index technical-health view as a table.
func RenderHealth(w io.Writer, h model.TechnicalHealth) error {
	table := tablewriter.NewWriter(w)
	table.Header("Symbol", "Price", "RSI14", "Zone", "SMA50", "SMA200", "Trend")
	price := "n/a"
	if h.Price != 0 {
		price = fmt.Sprintf("%.2f", h.Price)
	}
	if err := table.Append(string(h.Symbol), price, h.RSI.String(), string(h.RSIZone),
		h.SMA50.String(), h.SMA200.String(), string(h.Trend)); err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return table.Render()
}

// RenderRuleSets writes one row per registered rule set.
func RenderRuleSets(w io.Writer, sets []*strategy.RuleSet) error {
	table := tablewriter.NewWriter(w)
	table.Header("Version", "Name", "Lookback", "Auto quote", "Rules", "Description")
	for _, rs := range sets {
		names := make([]string, 0, len(rs.Rules))
		for _, r := range rs.Rules {
			names = append(names, r.Name)
		}
		if err := table.Append(rs.Version, rs.Name, string(rs.Lookback), fmt.Sprintf("%t", rs.AutoQuote),
			strings.Join(names, ", "), rs.Description); err != nil {
			return fmt.Errorf("append %s: %w", rs.Version, err)
		}
	}
	return table.Render()
}
