// Package metrics defines the Prometheus collectors of a sampling run and
// exposes them over HTTP for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker"

	"codeberg.org/snonux/wikifreq/internal/sampler"
)

const namespace = "wikifreq"

// Metrics holds all Prometheus collectors of wikifreq
type Metrics struct {
	registry *prometheus.Registry

	CorpusRequestsTotal   *prometheus.CounterVec
	CorpusRequestDuration *prometheus.HistogramVec
	DocumentsTotal        *prometheus.GaugeVec
	WordsTotal            prometheus.Gauge
	DistinctWords         prometheus.Gauge
	DocumentWords         prometheus.Histogram
	CircuitBreakerState   *prometheus.GaugeVec
}

// New creates the collectors and registers them with a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CorpusRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "corpus_requests_total",
				Help:      "Requests to the corpus service by operation and outcome (ok, empty, error).",
			},
			[]string{"operation", "outcome"},
		),
		CorpusRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "corpus_request_duration_seconds",
				Help:      "Corpus service request latency in seconds.",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation"},
		),
		DocumentsTotal: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "documents",
				Help:      "Fetched documents of the current run by outcome (accepted, empty, short).",
			},
			[]string{"outcome"},
		),
		WordsTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "words",
				Help:      "Words merged into the frequency table of the current run.",
			},
		),
		DistinctWords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "distinct_words",
				Help:      "Distinct words in the frequency table of the current run.",
			},
		),
		DocumentWords: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "document_words",
				Help:      "Words per accepted document.",
				Buckets:   prometheus.ExponentialBuckets(50, 2, 10),
			},
		),
		CircuitBreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_state",
				Help:      "Circuit breaker state (0=closed, 1=open, 2=half-open).",
			},
			[]string{"name"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.CorpusRequestsTotal,
		m.CorpusRequestDuration,
		m.DocumentsTotal,
		m.WordsTotal,
		m.DistinctWords,
		m.DocumentWords,
		m.CircuitBreakerState,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Accepted implements sampler.Observer
func (m *Metrics) Accepted(p sampler.Progress) {
	m.DocumentWords.Observe(float64(p.Words))
	m.DistinctWords.Set(float64(p.Table.Len()))
	m.RecordState(p.State)
}

// RecordState publishes the run counters
func (m *Metrics) RecordState(state sampler.RunState) {
	m.WordsTotal.Set(float64(state.TotalWords))
	m.DocumentsTotal.WithLabelValues("accepted").Set(float64(state.DocumentsAccepted))
	m.DocumentsTotal.WithLabelValues("empty").Set(float64(state.DocumentsEmpty))
	m.DocumentsTotal.WithLabelValues("short").Set(float64(state.DocumentsShort))
}

// BreakerStateFunc returns a callback for corpus.BreakerConfig.OnStateChange
func (m *Metrics) BreakerStateFunc(name string) func(from, to gobreaker.State) {
	m.CircuitBreakerState.WithLabelValues(name).Set(0)
	return func(from, to gobreaker.State) {
		m.CircuitBreakerState.WithLabelValues(name).Set(float64(breakerValue(to)))
	}
}

func breakerValue(s gobreaker.State) int {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}
