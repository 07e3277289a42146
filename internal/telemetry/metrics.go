// Package telemetry defines the Prometheus metrics exposed by the collector.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	candidatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "luxwire_candidates_total",
			Help: "Candidates discovered, labeled by publication and origin (sitemap/feed).",
		},
		[]string{"publication", "origin"},
	)

	fetchFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "luxwire_fetch_failures_total",
			Help: "Fetch failures, labeled by failure kind.",
		},
		[]string{"kind"},
	)

	articlesSelectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "luxwire_articles_selected_total",
			Help: "Articles that made a publication's final top-K selection.",
		},
		[]string{"publication"},
	)

	contentDiscardedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "luxwire_content_discarded_total",
			Help: "Candidates discarded at the content stage, labeled by reason.",
		},
		[]string{"reason"},
	)

	rateLimitDelaySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "luxwire_rate_limit_delay_seconds",
			Help:    "Histogram of pacing delays imposed before outbound requests.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"host"},
	)

	runDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "luxwire_run_duration_seconds",
			Help:    "Histogram of full collection run durations.",
			Buckets: prometheus.ExponentialBuckets(30, 2, 8),
		},
	)
)

// CountCandidates records discovered candidates for a publication.
func CountCandidates(publication, origin string, n int) {
	if n <= 0 {
		return
	}
	candidatesTotal.WithLabelValues(publication, origin).Add(float64(n))
}

// CountFetchFailure records one classified fetch failure.
func CountFetchFailure(kind string) {
	fetchFailuresTotal.WithLabelValues(kind).Inc()
}

// CountSelected records a publication's final selection size.
func CountSelected(publication string, n int) {
	if n <= 0 {
		return
	}
	articlesSelectedTotal.WithLabelValues(publication).Add(float64(n))
}

// CountContentDiscarded records a content-stage discard.
func CountContentDiscarded(reason string) {
	contentDiscardedTotal.WithLabelValues(reason).Inc()
}

// ObserveRateLimitDelay records a pacing delay for a host.
func ObserveRateLimitDelay(host string, d time.Duration) {
	rateLimitDelaySeconds.WithLabelValues(host).Observe(d.Seconds())
}

// ObserveRunDuration records a completed run's wall time.
func ObserveRunDuration(d time.Duration) {
	runDurationSeconds.Observe(d.Seconds())
}
