package bbtree

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments a Tree reports through when
// built with WithMetrics. Attaching one does not change what a Tree
// computes, only what it reports alongside doing so.
type Metrics struct {
	leafCount       prometheus.Gauge
	insertsTotal    prometheus.Counter
	removesTotal    prometheus.Counter
	reindexDuration prometheus.Histogram
	optimizeTotal   prometheus.Counter
	pairsPerReindex prometheus.Histogram
}

// NewMetrics registers a fresh set of broadphase instruments against the
// default Prometheus registry. Building more than one Metrics per
// process will panic on duplicate registration, matching promauto's
// usual contract — callers construct exactly one and share it across
// every Tree they want aggregated together.
func NewMetrics() *Metrics {
	return &Metrics{
		leafCount: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "bbtree_leaves",
			Help: "Number of objects currently indexed.",
		}),

		insertsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bbtree_inserts_total",
			Help: "Total number of Insert calls.",
		}),

		removesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bbtree_removes_total",
			Help: "Total number of Remove calls.",
		}),

		reindexDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "bbtree_reindex_duration_seconds",
			Help:    "Wall-clock time spent in ReindexQuery.",
			Buckets: prometheus.DefBuckets,
		}),

		optimizeTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bbtree_optimize_total",
			Help: "Total number of Optimize calls.",
		}),

		pairsPerReindex: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "bbtree_pairs_per_reindex",
			Help:    "Number of candidate pairs reported by a single ReindexQuery call.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
}

// ObserveInsert records an Insert call against a tree now holding count
// objects.
func (m *Metrics) ObserveInsert(count int) {
	m.insertsTotal.Inc()
	m.leafCount.Set(float64(count))
}

// ObserveRemove records a Remove call against a tree now holding count
// objects.
func (m *Metrics) ObserveRemove(count int) {
	m.removesTotal.Inc()
	m.leafCount.Set(float64(count))
}

// timeReindex returns a func to defer at the top of ReindexQuery; the
// returned func records both the elapsed duration and the number of
// pairs the call reported by the time it runs.
func (m *Metrics) timeReindex(pairs *int) func() {
	start := time.Now()
	return func() {
		m.reindexDuration.Observe(time.Since(start).Seconds())
		m.pairsPerReindex.Observe(float64(*pairs))
	}
}

// ObserveOptimize records an Optimize call.
func (m *Metrics) ObserveOptimize() {
	m.optimizeTotal.Inc()
}
