// Package metrics defines and registers all custom Prometheus metrics for the
// shipment dashboard. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry on
// package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shipments"

// ── Mutation metrics ──────────────────────────────────────────────────────────

// MutationsTotal counts local mutations forwarded to persistence.
// Labels:
//   - op: "create", "update_status", "update_location", "delete"
//   - result: "ok", "failed" (persistence rejected; local state kept), "noop"
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Total number of local shipment mutations, by operation and outcome.",
	},
	[]string{"op", "result"},
)

// CollectionSize is the number of shipments held by the reconciliation store.
var CollectionSize = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "collection_size",
		Help:      "Current number of shipments in the in-memory collection.",
	},
)

// ── Change feed metrics ───────────────────────────────────────────────────────

// FeedEventsTotal counts change-feed events.
// Labels:
//   - type: "insert", "update", "delete"
//   - result: "applied", "ignored" (idempotent no-op), "malformed"
var FeedEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_events_total",
		Help:      "Total number of change-feed events, by type and outcome.",
	},
	[]string{"type", "result"},
)

// FeedQueueDepth tracks events waiting in the dispatcher inbox.
var FeedQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "feed_queue_depth",
		Help:      "Current number of change-feed events pending in the dispatcher inbox.",
	},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsTotal counts user-visible notifications by severity.
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notifications sent to the user, by severity.",
	},
	[]string{"severity"},
)
