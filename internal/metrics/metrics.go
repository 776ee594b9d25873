// Package metrics exposes Prometheus counters for sync passes. The daemon
// command serves them; one-shot CLI runs still record them, they just go
// unscraped.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marciozomb13/FBEventSync/internal/core/domain"
)

// Pass outcome labels.
const (
	OutcomeSuccess      = "success"
	OutcomePartial      = "partial"
	OutcomeRateLimited  = "rate_limited"
	OutcomeAuthNeeded   = "auth_needed"
	OutcomeAuthFailure  = "auth_failure"
	OutcomeStoreFailure = "store_failure"
)

var (
	syncPassesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fbeventsync_sync_passes_total",
		Help: "Total number of sync pass triggers by outcome.",
	}, []string{"outcome"})

	eventWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fbeventsync_event_writes_total",
		Help: "Total number of local calendar mutations by action.",
	}, []string{"action"})

	feedFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fbeventsync_feed_failures_total",
		Help: "Total number of counted feed failures by kind.",
	}, []string{"kind"})
)

// RecordPass counts one pass trigger with its terminal outcome.
func RecordPass(outcome string) {
	syncPassesTotal.WithLabelValues(outcome).Inc()
}

// RecordStats folds a finished pass's counters into the write and failure
// metrics.
func RecordStats(stats *domain.SyncStats) {
	eventWritesTotal.WithLabelValues("insert").Add(float64(stats.Inserted))
	eventWritesTotal.WithLabelValues("update").Add(float64(stats.Updated))
	eventWritesTotal.WithLabelValues("delete").Add(float64(stats.Deleted))
	eventWritesTotal.WithLabelValues("unchanged").Add(float64(stats.Unchanged))

	feedFailuresTotal.WithLabelValues("parse").Add(float64(stats.ParseFailures))
	feedFailuresTotal.WithLabelValues("transport").Add(float64(stats.TransportFailures))
	feedFailuresTotal.WithLabelValues("store").Add(float64(stats.StoreFailures))
}

// Handler exposes the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
