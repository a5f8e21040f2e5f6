// Package metrics defines and registers the Prometheus metrics for the
// BookNest client gateway. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time;
// the gateway exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "booknest"

// --- Query cache metrics ---

// QueryReadsTotal counts cache lookups by outcome.
// Labels:
//   - result: "hit" (served from cache), "miss" (fetch issued),
//     "dedup" (joined an in-flight fetch), "disabled" (precondition not met)
var QueryReadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "query_reads_total",
		Help:      "Total number of query cache reads, labelled by outcome.",
	},
	[]string{"result"},
)

// QueryFetchesTotal counts upstream fetches that completed.
// Labels:
//   - result: "ok", "error", or "discarded" (superseded or invalidated mid-flight)
var QueryFetchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "query_fetches_total",
		Help:      "Total number of completed upstream fetches, labelled by result.",
	},
	[]string{"result"},
)

// InvalidationsTotal counts cache invalidations, by whether a refetch was scheduled.
var InvalidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "query_invalidations_total",
		Help:      "Total number of cache invalidations, labelled by effect (refetch/mark_stale).",
	},
	[]string{"effect"},
)

// WatchersActive tracks the number of currently attached query watchers.
var WatchersActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "query_watchers_active",
		Help:      "Number of currently attached query watchers.",
	},
)

// --- Mutation metrics ---

// MutationsTotal counts mutation triggers.
// Labels:
//   - outcome: "ok", "error", or "suppressed" (a run was already in flight)
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Total number of mutation triggers, labelled by outcome.",
	},
	[]string{"outcome"},
)
