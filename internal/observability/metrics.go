package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bazaar_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// CounterInconsistencies counts engagement-counter inconsistency events
	// (clamped decrements, counter adjustments on vanished targets).
	CounterInconsistencies = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bazaar_counter_inconsistencies_total",
		Help: "Total engagement counter inconsistency events by reason",
	}, []string{"reason", "target_type"})

	// CascadeDeletedComments records how many comments each cascade deletion removed.
	CascadeDeletedComments = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bazaar_cascade_deleted_comments",
		Help:    "Number of comments removed per cascade deletion",
		Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250},
	})

	// WebSocketConnectionsTotal is the gauge of total WebSocket connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bazaar_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bazaar_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})
)

// Inconsistency reasons recorded on CounterInconsistencies.
const (
	ReasonClampedNegative = "clamped_negative"
	ReasonTargetMissing   = "target_missing"
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
