package quote

import (
	"context"

	"github.com/rs/zerolog/log"

	"NiftySentinel/internal/metrics"
	"NiftySentinel/internal/model"
)

// Source looks up a live quote; false means unavailable.
type Source interface {
	Lookup(ctx context.Context) (float64, bool)
}

// Resolution is the quote chosen for a run and where it came from.
type Resolution struct {
	Quote  float64
	Source model.QuoteSource
}

// Resolve picks the futures quote for a run. A positive manual quote wins.
// Otherwise, when auto is set, the live source is consulted. If that is off or
// unavailable the prior index close is used, which pins the gap at zero.
// The result is never a literal zero price.
func Resolve(ctx context.Context, manual *float64, auto bool, src Source, priorClose float64) Resolution {
	res := resolve(ctx, manual, auto, src, priorClose)
	metrics.QuoteResolutions.WithLabelValues(string(res.Source)).Inc()
	return res
}

func resolve(ctx context.Context, manual *float64, auto bool, src Source, priorClose float64) Resolution {
	if manual != nil && *manual > 0 {
		return Resolution{Quote: *manual, Source: model.QuoteManual}
	}
	if auto && src != nil {
		if v, ok := src.Lookup(ctx); ok {
			return Resolution{Quote: v, Source: model.QuoteScraped}
		}
	}
	log.Info().Float64("prior_close", priorClose).Msg("no futures quote, assuming flat open at prior close")
	return Resolution{Quote: priorClose, Source: model.QuoteFallback}
}
