// Package metrics defines and registers all custom Prometheus metrics for the
// secureapp service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "secureapp"

// ── Access control metrics ───────────────────────────────────────────────────

// AccessDecisionsTotal counts guard outcomes.
// Labels:
//   - policy: the rendered policy (e.g. "all_of(admin)")
//   - result: "granted", "unauthenticated" or "forbidden"
var AccessDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_decisions_total",
		Help:      "Total number of access policy evaluations, by policy and result.",
	},
	[]string{"policy", "result"},
)

// SessionResolutionsTotal counts session token resolutions on incoming requests.
// Label:
//   - result: "anonymous" (no token), "accepted" or "rejected"
var SessionResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_resolutions_total",
		Help:      "Total number of session resolutions, by result.",
	},
	[]string{"result"},
)

// ── Auth audit metrics ────────────────────────────────────────────────────────

// AuthEventsTotal counts audit events accepted by the dispatcher.
// Label:
//   - kind: "registered", "login_succeeded", "login_failed" or "logout"
var AuthEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of authentication audit events queued, by kind.",
	},
	[]string{"kind"},
)

// AuthEventsErrorsTotal counts audit events that were not recorded.
// Label:
//   - reason: "queue_full" or "insert_failed"
var AuthEventsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_errors_total",
		Help:      "Total number of authentication audit events that could not be recorded.",
	},
	[]string{"reason"},
)

// AuthEventsQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuthEventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "auth_events_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuthEventPersistDuration measures how long storing one audit event takes.
var AuthEventPersistDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "auth_event_persist_duration_seconds",
		Help:      "Duration of audit event persistence from dequeue to insert.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// BookMutationsTotal counts successful catalog writes.
// Label:
//   - op: "create", "update" or "delete"
var BookMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "book_mutations_total",
		Help:      "Total number of successful book writes, by operation.",
	},
	[]string{"op"},
)
