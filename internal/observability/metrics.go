// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ledger metrics
	LaunchesCreated      prometheus.Counter
	PositionsRecorded    prometheus.Counter
	NewHolders           prometheus.Counter
	RewardsClaimed       prometheus.Counter
	RewardsClaimedAmount prometheus.Counter
	BundlersFlagged      *prometheus.CounterVec

	// Operation metrics
	OperationDuration *prometheus.HistogramVec
	OperationErrors   *prometheus.CounterVec

	// Event metrics
	EventsEmitted    *prometheus.CounterVec
	EventSubscribers prometheus.Gauge

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	UptimeSeconds prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "diamondpad"
	}

	return &Metrics{
		LaunchesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "launches_created_total",
			Help:      "Total number of launches registered",
		}),
		PositionsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "positions_recorded_total",
			Help:      "Total number of buys recorded against positions",
		}),
		NewHolders: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "new_holders_total",
			Help:      "Total number of new-holder events",
		}),
		RewardsClaimed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "rewards_claims_total",
			Help:      "Total number of successful reward claims",
		}),
		RewardsClaimedAmount: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "rewards_claimed_amount_total",
			Help:      "Total reward amount paid out across all claims",
		}),
		BundlersFlagged: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "bundlers_flagged_total",
			Help:      "Total number of bundler flags by kind (first or repeat)",
		}, []string{"kind"}),

		OperationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "operation_duration_seconds",
			Help:      "Ledger operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		OperationErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "operation_errors_total",
			Help:      "Total number of failed ledger operations by kind",
		}, []string{"operation", "error_type"}),

		EventsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "emitted_total",
			Help:      "Total number of notification events emitted by type",
		}, []string{"event_type"}),
		EventSubscribers: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "subscribers",
			Help:      "Current number of websocket event subscribers",
		}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		UptimeSeconds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "uptime_seconds_total",
			Help:      "Total uptime in seconds",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordLaunchCreated increments the launch counter.
func RecordLaunchCreated() {
	DefaultMetrics.LaunchesCreated.Inc()
}

// RecordPositionUpdate increments the buy counter, plus the new-holder
// counter when this buy opened the position.
func RecordPositionUpdate(newHolder bool) {
	DefaultMetrics.PositionsRecorded.Inc()
	if newHolder {
		DefaultMetrics.NewHolders.Inc()
	}
}

// RecordClaim records a successful reward claim.
func RecordClaim(amount uint64) {
	DefaultMetrics.RewardsClaimed.Inc()
	DefaultMetrics.RewardsClaimedAmount.Add(float64(amount))
}

// RecordBundlerFlagged records a bundler flag.
func RecordBundlerFlagged(repeat bool) {
	kind := "first"
	if repeat {
		kind = "repeat"
	}
	DefaultMetrics.BundlersFlagged.WithLabelValues(kind).Inc()
}

// RecordOperation records the duration of a ledger operation and, when
// errType is nonempty, its failure kind.
func RecordOperation(operation string, seconds float64, errType string) {
	DefaultMetrics.OperationDuration.WithLabelValues(operation).Observe(seconds)
	if errType != "" {
		DefaultMetrics.OperationErrors.WithLabelValues(operation, errType).Inc()
	}
}

// RecordEventEmitted increments the emitted-event counter.
func RecordEventEmitted(eventType string) {
	DefaultMetrics.EventsEmitted.WithLabelValues(eventType).Inc()
}

// UpdateEventSubscribers updates the subscriber gauge.
func UpdateEventSubscribers(n int) {
	DefaultMetrics.EventSubscribers.Set(float64(n))
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
