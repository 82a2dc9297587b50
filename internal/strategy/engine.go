package strategy

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"NiftySentinel/internal/model"
)

// ErrUnknownRuleSet is returned by Lookup for an unregistered version.
var ErrUnknownRuleSet = errors.New("unknown rule set")

// Rule is one guarded entry of a decision list.
type Rule struct {
	Name     string
	Label    string
	Severity model.Severity
	When     func(Signals) bool
	Explain  func(Signals) string
}

// RuleSet is an ordered decision list plus the inputs it needs.
type RuleSet struct {
	Version     string
	Name        string
	Description string
	Symbols     []model.Symbol
	Lookback    model.Lookback
	AutoQuote   bool // resolve the futures quote from the scraper when no manual quote is given
	Technicals  bool // compute RSI/SMA from the fetched history
	Rules       []Rule
	Default     Rule // emitted when no guard matches; its When is ignored
}

// Evaluate walks the rules top to bottom and returns the first match.
// Earlier rules take precedence when several guards hold.
func Evaluate(rs *RuleSet, sig Signals) model.Verdict {
	for _, r := range rs.Rules {
		if r.When(sig) {
			return verdict(r, sig)
		}
	}
	v := verdict(rs.Default, sig)
	v.Rule = ""
	return v
}

func verdict(r Rule, sig Signals) model.Verdict {
	v := model.Verdict{Label: r.Label, Severity: r.Severity, Rule: r.Name}
	if r.Explain != nil {
		v.Rationale = r.Explain(sig)
	}
	return v
}

var registry = map[string]*RuleSet{}

func register(rs *RuleSet) *RuleSet {
	if _, dup := registry[rs.Version]; dup {
		panic(fmt.Sprintf("rule set %s registered twice", rs.Version))
	}
	registry[rs.Version] = rs
	return rs
}

// Lookup returns the rule set registered under version (case-insensitive).
func Lookup(version string) (*RuleSet, error) {
	rs, ok := registry[strings.ToLower(strings.TrimSpace(version))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRuleSet, version)
	}
	return rs, nil
}

// All returns every registered rule set ordered by version.
func All() []*RuleSet {
	out := make([]*RuleSet, 0, len(registry))
	for _, rs := range registry {
		out = append(out, rs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out
}
