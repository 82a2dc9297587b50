package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"NiftySentinel/internal/metrics"
	"NiftySentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Series map[model.Symbol][]float64
	Err    map[model.Symbol]error
	Calls  int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchCloses(_ context.Context, symbol model.Symbol, _ model.Lookback) (model.PriceSeries, error) {
	m.Calls++
	if err, ok := m.Err[symbol]; ok {
		return model.PriceSeries{}, err
	}
	closes, ok := m.Series[symbol]
	if !ok {
		return model.PriceSeries{}, fmt.Errorf("mock: no data for %s", symbol)
	}
	return mockSeries(symbol, closes), nil
}

func mockSeries(symbol model.Symbol, closes []float64) model.PriceSeries {
	n := len(closes)
	pts := make([]model.PricePoint, n)
	for i, c := range closes {
		pts[i] = model.PricePoint{Time: time.Now().AddDate(0, 0, -(n - i)), Close: c}
	}
	return model.PriceSeries{Symbol: symbol, Points: pts}
}

// Collector fetches a symbol set and memoizes the result for a short time box.
type Collector struct {
	Fetcher Fetcher
	cache   *TTLCache[string, map[model.Symbol]model.PriceSeries]
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, ttl time.Duration) *Collector {
	return &Collector{
		Fetcher: fetcher,
		cache:   NewTTLCache[string, map[model.Symbol]model.PriceSeries]("provider", ttl),
	}
}

// WithClock replaces the cache clock, for tests.
func (c *Collector) WithClock(now func() time.Time) *Collector {
	c.cache.WithClock(now)
	return c
}

// Collect fetches every requested symbol. A failing symbol is logged and left
// out of the result; only context cancellation is returned as an error.
func (c *Collector) Collect(ctx context.Context, ruleSet string, symbols []model.Symbol, lookback model.Lookback) (map[model.Symbol]model.PriceSeries, error) {
	key := CacheKey(ruleSet, symbols, lookback)
	if cached, ok := c.cache.Get(key); ok {
		log.Debug().Str("key", key).Msg("provider cache hit")
		return cached, nil
	}

	out := make(map[model.Symbol]model.PriceSeries, len(symbols))
	for _, sym := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("collect: %w", err)
		}
		s, err := c.Fetcher.FetchCloses(ctx, sym, lookback)
		if err != nil {
			metrics.ProviderFetches.WithLabelValues(c.Fetcher.Name(), "error").Inc()
			log.Warn().Str("symbol", string(sym)).Str("provider", c.Fetcher.Name()).Err(err).Msg("fetch failed, symbol degrades to sentinel")
			continue
		}
		metrics.ProviderFetches.WithLabelValues(c.Fetcher.Name(), "ok").Inc()
		out[sym] = s
	}

	// An all-failed batch is not memoized so the next run retries the provider.
	if len(out) > 0 {
		c.cache.Set(key, out)
	}
	return out, nil
}
