package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/tidwall/gjson"

	"NiftySentinel/internal/model"
)

const yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		BaseURL: yahooChartURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooRange maps a lookback to a chart range Yahoo accepts.
func yahooRange(lb model.Lookback) string {
	switch lb {
	case model.LookbackFiveDays:
		return "5d"
	case model.LookbackSevenDays:
		return "1mo"
	default:
		return "1y"
	}
}

func (f *YahooFetcher) FetchCloses(ctx context.Context, symbol model.Symbol, lookback model.Lookback) (model.PriceSeries, error) {
	u := fmt.Sprintf("%s%s?interval=1d&range=%s", f.BaseURL, url.PathEscape(string(symbol)), yahooRange(lookback))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return model.PriceSeries{}, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return model.PriceSeries{}, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	return parseChart(symbol, body)
}

// parseChart extracts daily closes, skipping null or non-positive entries
// (holidays, halted sessions).
func parseChart(symbol model.Symbol, body []byte) (model.PriceSeries, error) {
	if !gjson.ValidBytes(body) {
		return model.PriceSeries{}, fmt.Errorf("yahoo decode: invalid json")
	}
	if desc := gjson.GetBytes(body, "chart.error.description"); desc.Exists() {
		return model.PriceSeries{}, fmt.Errorf("yahoo api error: %s", desc.String())
	}

	result := gjson.GetBytes(body, "chart.result.0")
	timestamps := result.Get("timestamp").Array()
	if len(timestamps) == 0 {
		return model.PriceSeries{}, fmt.Errorf("yahoo: no data returned")
	}
	closes := result.Get("indicators.quote.0.close").Array()

	points := make([]model.PricePoint, 0, len(timestamps))
	for i, ts := range timestamps {
		if i >= len(closes) {
			break
		}
		c := closes[i]
		if c.Type != gjson.Number || c.Float() <= 0 {
			continue
		}
		points = append(points, model.PricePoint{
			Time:  time.Unix(ts.Int(), 0).UTC(),
			Close: c.Float(),
		})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })
	return model.PriceSeries{Symbol: symbol, Points: points}, nil
}
