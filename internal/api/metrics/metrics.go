// Package metrics defines and registers the custom Prometheus metrics of the
// storefront gateway. It is the single source of truth for metric names,
// labels, and help strings.
//
// All metrics are registered with the default registry through promauto when
// the package is initialised.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Live channel metrics ──────────────────────────────────────────────────────

// LiveMessagesTotal counts live channel envelopes applied by a consumer.
// Labels:
//   - consumer: "cache_sync" or "notification_feed"
//   - kind: the envelope discriminator (e.g. "order_created")
var LiveMessagesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "live_messages_total",
		Help:      "Total number of live channel messages applied, by consumer and kind.",
	},
	[]string{"consumer", "kind"},
)

// LiveMessagesDroppedTotal counts inbound frames a consumer discarded.
// Labels:
//   - consumer: the subscriber name
//   - reason: "unknown_type", "malformed" or "panic"
var LiveMessagesDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "live_messages_dropped_total",
		Help:      "Total number of live channel messages dropped, by consumer and reason.",
	},
	[]string{"consumer", "reason"},
)

// LiveConnectionEventsTotal counts socket lifecycle events.
// Label:
//   - event: "open", "close", "error" or "reconnect"
var LiveConnectionEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "live_connection_events_total",
		Help:      "Total number of live channel lifecycle events.",
	},
	[]string{"event"},
)

// LiveSessions tracks the number of sessions holding a live channel.
var LiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_sessions",
		Help:      "Current number of sessions owned by the session manager.",
	},
)

// ── Navigation / identity metrics ─────────────────────────────────────────────

// GuardDecisionsTotal counts route guard outcomes.
// Labels:
//   - action: "render", "redirect" or "pending"
//   - location: redirect target, empty otherwise
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by action and redirect target.",
	},
	[]string{"action", "location"},
)

// IdentityCacheTotal counts identity cache lookups.
// Label:
//   - result: "hit" or "miss"
var IdentityCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "identity_cache_total",
		Help:      "Total number of identity cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Mutation queue metrics ────────────────────────────────────────────────────

// MutationQueueDepth tracks the number of cache mutations waiting per worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var MutationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mutation_queue_depth",
		Help:      "Current number of cache mutations pending in each queue worker.",
	},
	[]string{"worker_id"},
)

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestDuration measures calls to the backend REST API.
// Labels:
//   - endpoint: the backend path template (e.g. "/books/borrow/:id")
//   - outcome: "ok", "client_error", "server_error" or "transport_error"
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of backend REST calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint", "outcome"},
)
