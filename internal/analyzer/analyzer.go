// Package analyzer runs one pre-open evaluation end to end.
package analyzer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"NiftySentinel/internal/calculator"
	"NiftySentinel/internal/collector"
	"NiftySentinel/internal/metrics"
	"NiftySentinel/internal/model"
	"NiftySentinel/internal/quote"
	"NiftySentinel/internal/recorder"
	"NiftySentinel/internal/strategy"
)

// Options tune where the gap is anchored.
type Options struct {
	IndexSymbol   model.Symbol
	FallbackClose float64
}

// Request selects the rule set and an optional manual futures quote.
type Request struct {
	RuleSet     *strategy.RuleSet
	ManualQuote *float64
}

// Analyzer wires the provider, the quote source and the decision engine.
type Analyzer struct {
	collector *collector.Collector
	quotes    quote.Source
	recorder  recorder.Recorder
	opts      Options
	now       func() time.Time

	mu sync.Mutex
}

// New creates an Analyzer. A nil recorder disables the journal.
func New(c *collector.Collector, quotes quote.Source, rec recorder.Recorder, opts Options) *Analyzer {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if opts.IndexSymbol == "" {
		opts.IndexSymbol = model.SymbolNifty
	}
	if opts.FallbackClose <= 0 {
		opts.FallbackClose = calculator.DefaultFallbackClose
	}
	return &Analyzer{collector: c, quotes: quotes, recorder: rec, opts: opts, now: time.Now}
}

// Run evaluates one rule set. Missing market data degrades the verdict instead
// of failing it; only context cancellation is returned as an error.
// Runs are serialized.
func (a *Analyzer) Run(ctx context.Context, req Request) (*model.Evaluation, error) {
	rs := req.RuleSet
	if rs == nil {
		return nil, fmt.Errorf("run: %w: nil rule set", strategy.ErrUnknownRuleSet)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	history, err := a.collector.Collect(ctx, rs.Version, rs.Symbols, rs.Lookback)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", rs.Version, err)
	}

	changes, prices := calculator.Normalize(rs.Symbols, history)
	var technicals model.TechnicalSet
	if rs.Technicals {
		technicals = calculator.CalculateTechnicals(history)
	}

	prior := calculator.PriorClose(prices, a.opts.IndexSymbol, a.opts.FallbackClose)
	res := quote.Resolve(ctx, req.ManualQuote, rs.AutoQuote, a.quotes, prior)
	gap := calculator.CalculateGap(res.Quote, prices, a.opts.IndexSymbol, a.opts.FallbackClose)

	verdict := strategy.Evaluate(rs, strategy.Signals{
		Changes:    changes,
		Prices:     prices,
		Technicals: technicals,
		Gap:        gap,
	})

	ev := &model.Evaluation{
		ID:          uuid.NewString(),
		RuleSet:     rs.Version,
		Verdict:     verdict,
		Gap:         gap,
		QuoteSource: res.Source,
		Changes:     changes,
		Prices:      prices,
		Technicals:  technicals,
		EvaluatedAt: a.now(),
	}

	metrics.Evaluations.WithLabelValues(rs.Version, string(verdict.Severity)).Inc()
	metrics.GapPoints.WithLabelValues(rs.Version).Set(gap.Points)

	if err := a.recorder.RecordEvaluation(ev); err != nil {
		log.Warn().Err(err).Str("id", ev.ID).Msg("journal write failed")
	}

	log.Info().
		Str("id", ev.ID).
		Str("ruleset", rs.Version).
		Str("verdict", verdict.Label).
		Str("rule", verdict.Rule).
		Float64("gap", gap.Points).
		Str("quote_source", string(res.Source)).
		Int("symbols", len(history)).
		Msg("evaluation complete")

	return ev, nil
}

// Health reports RSI zone and SMA200 trend for the index over a one-year history.
// It shares the provider cache with the full-macro rule set.
func (a *Analyzer) Health(ctx context.Context) (model.TechnicalHealth, error) {
	rs := strategy.V4
	history, err := a.collector.Collect(ctx, rs.Version, rs.Symbols, rs.Lookback)
	if err != nil {
		return model.TechnicalHealth{}, fmt.Errorf("health: %w", err)
	}
	_, prices := calculator.Normalize(rs.Symbols, history)
	ts := calculator.CalculateTechnicals(history)
	return calculator.AssessHealth(a.opts.IndexSymbol, prices, ts), nil
}
