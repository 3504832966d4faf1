package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// Remote API
	UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Calls made to the remote auth/admin API",
		},
		[]string{"op", "outcome"}, // outcome: ok|api_error|transport_error
	)
	UpstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Latency of remote API calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	// Sessions
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Logged-in console sessions",
		},
	)
	SessionTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_transitions_total",
			Help: "Session state changes",
		},
		[]string{"to", "reason"},
	)

	// Audit logs seen by the dashboard
	LogsClassified = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_logs_classified_total",
			Help: "Audit log entries classified by severity",
		},
		[]string{"severity"},
	)

	// Worker queue
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)

	initOnce sync.Once
)

// /metrics endpoint'i için handler
var Handler = promhttp.Handler

// Init registers the collectors with the default registry. Safe to call more
// than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestsTotal,
			UpstreamRequests,
			UpstreamLatency,
			ActiveSessions,
			SessionTransitions,
			LogsClassified,
			WorkerQueueDepth,
		)
	})
}
