package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// correlation engine.
type Metrics struct {
	EventsNormalized *prometheus.CounterVec // labels: source
	RowsDropped      *prometheus.CounterVec // labels: source
	PairsMatched     prometheus.Counter
	BatchRunning     prometheus.Gauge
	BatchDuration    prometheus.Histogram

	// Milestone retrieval metrics.
	MilestoneFetches       *prometheus.CounterVec   // labels: milestone, outcome={success,error}
	MilestoneFetchDuration *prometheus.HistogramVec // labels: milestone
	MilestoneCache         *prometheus.CounterVec   // labels: milestone, result={hit,miss}
	NegativeLapses         *prometheus.CounterVec   // labels: milestone
}

// NewMetrics creates and registers all engine metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.EventsNormalized,
		m.RowsDropped,
		m.PairsMatched,
		m.BatchRunning,
		m.BatchDuration,
		m.MilestoneFetches,
		m.MilestoneFetchDuration,
		m.MilestoneCache,
		m.NegativeLapses,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		EventsNormalized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_monev",
			Name:      "events_normalized_total",
			Help:      "Catalog rows successfully normalized, by source.",
		}, []string{"source"}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_monev",
			Name:      "rows_dropped_total",
			Help:      "Catalog rows excluded during normalization, by source.",
		}, []string{"source"}),
		PairsMatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_monev",
			Name:      "pairs_matched_total",
			Help:      "Matched event pairs produced by correlation.",
		}),
		BatchRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_monev",
			Name:      "batch_running",
			Help:      "1 while an analysis batch is executing, 0 otherwise.",
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_monev",
			Name:      "batch_duration_seconds",
			Help:      "Duration of a complete normalize-correlate-evaluate batch.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		MilestoneFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_monev",
			Name:      "milestone_fetches_total",
			Help:      "Milestone record fetches by milestone and outcome.",
		}, []string{"milestone", "outcome"}),
		MilestoneFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "quake_monev",
			Name:      "milestone_fetch_duration_seconds",
			Help:      "Milestone record fetch duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"milestone"}),
		MilestoneCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_monev",
			Name:      "milestone_cache_total",
			Help:      "Milestone cache lookups by milestone and result.",
		}, []string{"milestone", "result"}),
		NegativeLapses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_monev",
			Name:      "negative_lapses_total",
			Help:      "Latency records flagged because the milestone precedes origin time.",
		}, []string{"milestone"}),
	}
}
