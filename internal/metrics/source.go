package metrics

import (
	"context"
	"time"

	"codeberg.org/snonux/wikifreq/internal/corpus"
)

// InstrumentedSource counts and times every request of a corpus.Source
type InstrumentedSource struct {
	source  corpus.Source
	metrics *Metrics
}

// Instrument wraps source so that its requests are recorded in m
func (m *Metrics) Instrument(source corpus.Source) *InstrumentedSource {
	return &InstrumentedSource{source: source, metrics: m}
}

// Name returns the name of the wrapped source
func (s *InstrumentedSource) Name() string {
	return s.source.Name()
}

// RandomTitle forwards to the wrapped source
func (s *InstrumentedSource) RandomTitle(ctx context.Context) (string, error) {
	start := time.Now()
	title, err := s.source.RandomTitle(ctx)
	s.observe("random", start, title == "", err)
	return title, err
}

// Extract forwards to the wrapped source
func (s *InstrumentedSource) Extract(ctx context.Context, title string) (string, error) {
	start := time.Now()
	text, err := s.source.Extract(ctx, title)
	s.observe("extract", start, text == "", err)
	return text, err
}

func (s *InstrumentedSource) observe(op string, start time.Time, empty bool, err error) {
	s.metrics.CorpusRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case empty:
		outcome = "empty"
	}
	s.metrics.CorpusRequestsTotal.WithLabelValues(op, outcome).Inc()
}
