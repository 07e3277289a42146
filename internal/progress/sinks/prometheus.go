package sinks

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gildedpress/luxwire/internal/progress"
)

// PrometheusSink exports run progress as Prometheus metrics. It owns every
// collector it registers.
type PrometheusSink struct {
	runsStarted  prometheus.Counter
	runsDone     prometheus.Counter
	runDuration  prometheus.Histogram
	sourcesDone  *prometheus.CounterVec
	sourceErrors *prometheus.CounterVec
	articlesKept *prometheus.CounterVec
}

// NewPrometheusSink registers the collectors against the given registry.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PrometheusSink{
		runsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "luxwire_runs_started_total",
			Help: "Collection runs started.",
		}),
		runsDone: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "luxwire_runs_completed_total",
			Help: "Collection runs completed.",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "luxwire_run_seconds",
			Help:    "Wall time per completed run.",
			Buckets: []float64{10, 30, 60, 120, 300, 600, 1200, 2400},
		}),
		sourcesDone: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "luxwire_sources_completed_total",
			Help: "Sources completed per publication.",
		}, []string{"publication"}),
		sourceErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "luxwire_source_errors_total",
			Help: "Sources that failed per publication.",
		}, []string{"publication"}),
		articlesKept: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "luxwire_articles_kept_total",
			Help: "Articles kept for the final selection per publication.",
		}, []string{"publication"}),
	}
	for _, c := range []prometheus.Collector{
		s.runsStarted, s.runsDone, s.runDuration,
		s.sourcesDone, s.sourceErrors, s.articlesKept,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register progress collector: %w", err)
		}
	}
	return s, nil
}

// Consume folds the batch into the counters.
func (s *PrometheusSink) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		switch evt.Stage {
		case progress.StageRunStart:
			s.runsStarted.Inc()
		case progress.StageRunDone:
			s.runsDone.Inc()
			s.runDuration.Observe(evt.Dur.Seconds())
		case progress.StageSourceDone:
			s.sourcesDone.WithLabelValues(evt.Publication).Inc()
		case progress.StageSourceError:
			s.sourceErrors.WithLabelValues(evt.Publication).Inc()
		case progress.StageArticleKept:
			s.articlesKept.WithLabelValues(evt.Publication).Inc()
		}
	}
	return nil
}

// Close implements the Sink interface.
func (s *PrometheusSink) Close(context.Context) error { return nil }
