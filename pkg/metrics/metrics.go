// Package metrics defines the Prometheus collectors for ladder queries and
// exposes an HTTP handler for scraping. A nil *Metrics records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/bastiangx/wordladder/pkg/search"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wordladder"

// Query outcomes used as the result label.
const (
	ResultFound    = "found"
	ResultNoPath   = "no_path"
	ResultNotFound = "not_found"
	ResultInvalid  = "invalid"
	ResultTimeout  = "timeout"
	ResultError    = "error"
)

// Metrics holds all Prometheus collectors.
type Metrics struct {
	QueriesTotal      *prometheus.CounterVec
	QueryLatency      *prometheus.HistogramVec
	PathsReturned     prometheus.Histogram
	PathDistance      prometheus.Histogram
	LayersTotal       *prometheus.CounterVec
	FrontierSize      *prometheus.HistogramVec
	DictionaryWords   prometheus.Gauge
	IndexBuildSeconds *prometheus.GaugeVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg. A nil reg uses
// a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queries_total",
				Help:      "Path queries by finder and result (found, no_path, not_found, invalid, timeout, error).",
			},
			[]string{"finder", "result"},
		),
		QueryLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_duration_seconds",
				Help:      "Path query latency in seconds.",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"finder"},
		),
		PathsReturned: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "paths_returned",
				Help:      "Number of shortest paths returned per successful query.",
				Buckets:   []float64{1, 2, 5, 10, 50, 100, 1000},
			},
		),
		PathDistance: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "path_distance_edits",
				Help:      "Edit distance of successful queries.",
				Buckets:   prometheus.LinearBuckets(1, 1, 12),
			},
		),
		LayersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "layers_total",
				Help:      "Breadth-first layers advanced, by search side.",
			},
			[]string{"side"},
		),
		FrontierSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "frontier_words",
				Help:      "Outer layer size after each advance.",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 9),
			},
			[]string{"side"},
		),
		DictionaryWords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dictionary_words",
				Help:      "Words in the loaded dictionary.",
			},
		),
		IndexBuildSeconds: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "index_build_seconds",
				Help:      "Time spent building the neighbor index.",
			},
			[]string{"index"},
		),
		gatherer: reg,
	}

	reg.MustRegister(
		m.QueriesTotal,
		m.QueryLatency,
		m.PathsReturned,
		m.PathDistance,
		m.LayersTotal,
		m.FrontierSize,
		m.DictionaryWords,
		m.IndexBuildSeconds,
	)
	return m
}

// RecordQuery counts one finished query. paths and distance are only
// observed for found results.
func (m *Metrics) RecordQuery(finder, result string, elapsed time.Duration, paths, distance int) {
	if m == nil {
		return
	}
	m.QueriesTotal.WithLabelValues(finder, result).Inc()
	m.QueryLatency.WithLabelValues(finder).Observe(elapsed.Seconds())
	if result == ResultFound {
		m.PathsReturned.Observe(float64(paths))
		m.PathDistance.Observe(float64(distance))
	}
}

// ObserveLayer records one search advance. It has the search.WithObserver
// signature.
func (m *Metrics) ObserveLayer(e search.LayerEvent) {
	if m == nil {
		return
	}
	m.LayersTotal.WithLabelValues(string(e.Side)).Inc()
	m.FrontierSize.WithLabelValues(string(e.Side)).Observe(float64(e.Outer))
}

// RecordBuild sets the dictionary size and index build time.
func (m *Metrics) RecordBuild(index string, words int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.DictionaryWords.Set(float64(words))
	m.IndexBuildSeconds.WithLabelValues(index).Set(elapsed.Seconds())
}

// Handler returns the scrape handler for the registry m was built with.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
