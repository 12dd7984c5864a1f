// Package metrics provides Prometheus metrics for the card ledger
// backend. Scrape these at /metrics for dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "card_ledger_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "card_ledger_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Snapshot Metrics
	SnapshotSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "card_ledger_snapshot_rows",
			Help: "Number of rows in the most recently loaded snapshot",
		},
	)

	IDRepairsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "card_ledger_id_repairs_total",
			Help: "Number of loads that had to rewrite the id column",
		},
	)

	CoercionFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "card_ledger_coercion_fallbacks_total",
			Help: "Field values replaced by their column fallback during coercion",
		},
	)

	// Reconcile Metrics
	ReconcileCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "card_ledger_reconcile_cycles_total",
			Help: "Completed reconciliation cycles by outcome",
		},
		[]string{"outcome"}, // "clean" or "partial"
	)

	ReconcileRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "card_ledger_reconcile_rows_total",
			Help: "Rows touched by reconciliation, by operation",
		},
		[]string{"op"}, // "updated", "deleted", "skipped"
	)

	FullReplacesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "card_ledger_full_replaces_total",
			Help: "Full-replace save operations by result",
		},
		[]string{"result"}, // "success" or "failed"
	)

	// Store Metrics
	StoreErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "card_ledger_store_errors_total",
			Help: "Failed store calls by operation",
		},
		[]string{"op"},
	)
)
