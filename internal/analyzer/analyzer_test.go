package analyzer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NiftySentinel/internal/collector"
	"NiftySentinel/internal/model"
	"NiftySentinel/internal/strategy"
)

type fakeSource struct {
	quote float64
	ok    bool
	calls int
}

func (f *fakeSource) Lookup(context.Context) (float64, bool) {
	f.calls++
	return f.quote, f.ok
}

type memRecorder struct {
	mu  sync.Mutex
	evs []*model.Evaluation
	err error
}

func (m *memRecorder) RecordEvaluation(ev *model.Evaluation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evs = append(m.evs, ev)
	return m.err
}

func (m *memRecorder) Close() error { return nil }

func flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func rising(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func newAnalyzer(f *collector.MockFetcher, src *fakeSource, rec *memRecorder) *Analyzer {
	a := New(collector.NewCollector(f, time.Minute), src, rec, Options{})
	return a
}

func ptr(v float64) *float64 { return &v }

func TestRun_ManualQuoteGapUp(t *testing.T) {
	f := &collector.MockFetcher{Series: map[model.Symbol][]float64{
		model.SymbolINDA:  {50, 50.5},
		model.SymbolEWW:   {60, 60},
		model.SymbolHDB:   {70, 70},
		model.SymbolIBN:   {30, 30},
		model.SymbolINFY:  {20, 20},
		model.SymbolNifty: {23900, 24000},
	}}
	rec := &memRecorder{}
	a := newAnalyzer(f, &fakeSource{}, rec)

	ev, err := a.Run(context.Background(), Request{RuleSet: strategy.V1, ManualQuote: ptr(24060)})
	require.NoError(t, err)

	assert.Equal(t, "v1", ev.RuleSet)
	assert.Equal(t, model.QuoteManual, ev.QuoteSource)
	assert.Equal(t, 60.0, ev.Gap.Points)
	assert.Equal(t, 24000.0, ev.Gap.PriorClose)
	assert.Equal(t, model.SeverityBullish, ev.Verdict.Severity)
	assert.NotEmpty(t, ev.ID)
	assert.Nil(t, ev.Technicals)
	require.Len(t, rec.evs, 1)
	assert.Equal(t, ev.ID, rec.evs[0].ID)
}

func TestRun_ScrapeFailureFallsBackToFlatGap(t *testing.T) {
	f := &collector.MockFetcher{Series: map[model.Symbol][]float64{
		model.SymbolNifty: {24000, 24100},
	}}
	src := &fakeSource{ok: false}
	a := newAnalyzer(f, src, &memRecorder{})

	ev, err := a.Run(context.Background(), Request{RuleSet: strategy.V3})
	require.NoError(t, err)

	assert.Equal(t, 1, src.calls)
	assert.Equal(t, model.QuoteFallback, ev.QuoteSource)
	assert.Equal(t, 24100.0, ev.Gap.Quote)
	assert.Zero(t, ev.Gap.Points)
	assert.Zero(t, ev.Gap.Percent)
	assert.Equal(t, "FLAT / RANGEBOUND", ev.Verdict.Label)
}

func TestRun_ScrapedQuote(t *testing.T) {
	f := &collector.MockFetcher{Series: map[model.Symbol][]float64{
		model.SymbolNifty: {24000, 24100},
	}}
	a := newAnalyzer(f, &fakeSource{quote: 24200, ok: true}, &memRecorder{})

	ev, err := a.Run(context.Background(), Request{RuleSet: strategy.V3})
	require.NoError(t, err)
	assert.Equal(t, model.QuoteScraped, ev.QuoteSource)
	assert.Equal(t, 100.0, ev.Gap.Points)
}

func TestRun_ManualQuoteBeatsScraper(t *testing.T) {
	f := &collector.MockFetcher{Series: map[model.Symbol][]float64{model.SymbolNifty: {24000, 24100}}}
	src := &fakeSource{quote: 24200, ok: true}
	a := newAnalyzer(f, src, &memRecorder{})

	ev, err := a.Run(context.Background(), Request{RuleSet: strategy.V3, ManualQuote: ptr(24000)})
	require.NoError(t, err)
	assert.Equal(t, model.QuoteManual, ev.QuoteSource)
	assert.Equal(t, -100.0, ev.Gap.Points)
	assert.Zero(t, src.calls)
}

func TestRun_ProviderUnavailable(t *testing.T) {
	f := &collector.MockFetcher{Err: map[model.Symbol]error{}}
	for _, sym := range strategy.V4.Symbols {
		f.Err[sym] = errors.New("connection refused")
	}
	rec := &memRecorder{err: errors.New("disk full")}
	a := newAnalyzer(f, &fakeSource{}, rec)

	ev, err := a.Run(context.Background(), Request{RuleSet: strategy.V4})
	require.NoError(t, err)

	assert.Equal(t, model.QuoteFallback, ev.QuoteSource)
	assert.Equal(t, 24000.0, ev.Gap.PriorClose)
	assert.Zero(t, ev.Gap.Points)
	assert.Equal(t, "NEUTRAL", ev.Verdict.Label)
	assert.False(t, ev.Technicals.Get(model.SymbolNifty, model.IndicatorRSI14).Valid)
	// A journal failure is logged, not surfaced.
	assert.Len(t, rec.evs, 1)
}

func TestRun_CancelledContext(t *testing.T) {
	f := &collector.MockFetcher{Series: map[model.Symbol][]float64{model.SymbolNifty: {1, 2}}}
	a := newAnalyzer(f, &fakeSource{}, &memRecorder{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.Run(ctx, Request{RuleSet: strategy.V1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_NilRuleSet(t *testing.T) {
	a := newAnalyzer(&collector.MockFetcher{}, &fakeSource{}, &memRecorder{})
	_, err := a.Run(context.Background(), Request{})
	assert.ErrorIs(t, err, strategy.ErrUnknownRuleSet)
}

func TestRun_UsesProviderCache(t *testing.T) {
	f := &collector.MockFetcher{Series: map[model.Symbol][]float64{model.SymbolNifty: {24000, 24100}}}
	a := newAnalyzer(f, &fakeSource{}, &memRecorder{})

	_, err := a.Run(context.Background(), Request{RuleSet: strategy.V1})
	require.NoError(t, err)
	calls := f.Calls
	_, err = a.Run(context.Background(), Request{RuleSet: strategy.V1})
	require.NoError(t, err)
	assert.Equal(t, calls, f.Calls)
}

func TestHealth(t *testing.T) {
	f := &collector.MockFetcher{Series: map[model.Symbol][]float64{
		model.SymbolNifty: rising(250, 20000, 10),
	}}
	a := newAnalyzer(f, &fakeSource{}, &memRecorder{})

	h, err := a.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.SymbolNifty, h.Symbol)
	assert.True(t, h.RSI.Valid)
	assert.Equal(t, 100.0, h.RSI.Value)
	assert.Equal(t, model.ZoneOverbought, h.RSIZone)
	assert.Equal(t, model.TrendBull, h.Trend)
}

func TestHealth_ShortHistory(t *testing.T) {
	f := &collector.MockFetcher{Series: map[model.Symbol][]float64{
		model.SymbolNifty: flat(20, 24000),
	}}
	a := newAnalyzer(f, &fakeSource{}, &memRecorder{})

	h, err := a.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.ZoneNeutral, h.RSIZone)
	assert.Equal(t, model.TrendUnknown, h.Trend)
	assert.False(t, h.SMA200.Valid)
}
