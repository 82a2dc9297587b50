package collector

import (
	"context"

	"NiftySentinel/internal/model"
)

// Fetcher defines the interface for fetching daily closes.
type Fetcher interface {
	FetchCloses(ctx context.Context, symbol model.Symbol, lookback model.Lookback) (model.PriceSeries, error)
	Name() string
}
