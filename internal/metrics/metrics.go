// Package metrics provides Prometheus metrics for Alert Relay.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "alertrelay"
)

// Poller metrics
var (
	// CyclesTotal counts poll cycles by result (ok, empty, error).
	CyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "cycles_total",
			Help:      "Total number of poll cycles",
		},
		[]string{"result"},
	)

	// CycleDuration tracks poll cycle duration.
	CycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "cycle_duration_seconds",
			Help:      "Poll cycle duration in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// ConsecutiveErrors tracks the current consecutive-error count.
	ConsecutiveErrors = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "consecutive_errors",
			Help:      "Current consecutive poll cycle failures",
		},
	)
)

// Engine metrics
var (
	// AlertsProcessedTotal counts processed alerts by lifecycle type.
	AlertsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "alerts_processed_total",
			Help:      "Total alerts processed",
		},
		[]string{"type"},
	)

	// AlertsSuppressedTotal counts alerts suppressed by maintenance windows.
	AlertsSuppressedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "alerts_suppressed_total",
			Help:      "Total alerts suppressed by maintenance windows",
		},
	)
)

// Notification metrics
var (
	// NotificationsTotal counts dispatch attempts by method and result.
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "notifications_total",
			Help:      "Total notification dispatches",
		},
		[]string{"method", "result"},
	)

	// RecipientsTotal counts delivered addresses by method.
	RecipientsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "recipients_total",
			Help:      "Total resolved recipient addresses",
		},
		[]string{"method"},
	)
)
