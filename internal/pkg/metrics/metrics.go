// Package metrics defines and registers all custom Prometheus metrics for the
// complaints API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry on package init, so
// the /metrics endpoint exposes them alongside the HTTP metrics from
// echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "complaints"

// ── Write path ────────────────────────────────────────────────────────────────

// WritesTotal counts write-path outcomes.
// Labels:
//   - entity: "user" or "complaint"
//   - action: "create", "update" or "delete"
//   - result: "ok", "validation", "conflict", "not_found" or "error"
var WritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "writes_total",
		Help:      "Total number of write operations, by entity, action and result.",
	},
	[]string{"entity", "action", "result"},
)

// ── Listing ───────────────────────────────────────────────────────────────────

// ListingFailuresTotal counts listings that returned an error instead of rows.
// Labels:
//   - entity: "user" or "complaint"
//   - reason: "empty", "integrity" or "error"
var ListingFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listing_failures_total",
		Help:      "Total number of listings that failed, by entity and reason.",
	},
	[]string{"entity", "reason"},
)

// ── Auth ──────────────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok", "unauthorized" or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Audit dispatcher ──────────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of entries waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditWriteDuration measures how long persisting a single audit entry takes.
// Label:
//   - result: "ok" or "error"
var AuditWriteDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_write_duration_seconds",
		Help:      "Duration of audit entry persistence from dequeue to store.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// AuditDroppedTotal counts entries discarded because the worker channel was full
// or the dispatcher had already stopped.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of audit entries dropped before reaching the store.",
	},
)
