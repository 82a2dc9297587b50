// Package metrics exposes Prometheus instrumentation for evaluations and their inputs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Evaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_evaluations_total",
			Help: "Completed evaluations by rule set and verdict severity",
		},
		[]string{"ruleset", "severity"},
	)

	GapPoints = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sentinel_gap_points",
			Help: "Implied opening gap in index points from the latest evaluation",
		},
		[]string{"ruleset"},
	)

	QuoteResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_quote_resolutions_total",
			Help: "Futures quote resolutions by source (manual, scraped, fallback)",
		},
		[]string{"source"},
	)

	ProviderFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_provider_fetches_total",
			Help: "Per-symbol market data fetches by provider and result",
		},
		[]string{"provider", "result"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_cache_lookups_total",
			Help: "Advisory cache lookups by cache and result (hit, miss)",
		},
		[]string{"cache", "result"},
	)
)
