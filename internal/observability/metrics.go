package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// JobsCreated counts successfully created postings.
	JobsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tasklink_jobs_created_total",
		Help: "Total number of job postings created",
	})

	// JobStatusChanges counts status transitions by resulting status.
	JobStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tasklink_job_status_changes_total",
		Help: "Total number of job status changes by new status",
	}, []string{"status"})

	// JobsDeleted counts removed postings.
	JobsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tasklink_jobs_deleted_total",
		Help: "Total number of job postings deleted",
	})

	// ProfileUpdates counts profile writes by kind (company, student) and action.
	ProfileUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tasklink_profile_updates_total",
		Help: "Total number of profile writes",
	}, []string{"kind", "action"})

	// OpenJobsCacheResults counts open-listing cache hits and misses.
	OpenJobsCacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tasklink_open_jobs_cache_total",
		Help: "Open jobs cache lookups by result",
	}, []string{"result"})

	// DatabaseQueryLatency records repository latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tasklink_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// WebSocketConnectionsTotal is the gauge of active job feed connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tasklink_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tasklink_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})
)

// TrackQuery starts a latency observation and returns the func that records it.
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
