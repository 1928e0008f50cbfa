// Package metrics holds the Prometheus collectors of the ledger service.
// Collectors register with the default registry and are served at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fortuna"

// HTTPRequests counts served requests by method, route and status
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "Total HTTP requests by method, route and status code.",
}, []string{"method", "route", "status"})

// HTTPRequestDuration observes request latency by method and route
var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency in seconds.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route"})

// Notifications counts emitted notifications by severity
var Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "notifications_total",
	Help:      "Total user notifications emitted by severity.",
}, []string{"severity"})

// BudgetAlerts counts newly raised budget alerts by level
var BudgetAlerts = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "budget_alerts_total",
	Help:      "Total budget alerts raised by level (warning, exceeded).",
}, []string{"level"})

// PersistenceFailures counts failed remote operations by operation name
var PersistenceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "persistence_failures_total",
	Help:      "Total failed persistence operations by operation.",
}, []string{"op"})

// ActiveSessions is the number of loaded finance states
var ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "active_sessions",
	Help:      "Number of user finance states held in memory.",
})

// WebSocketConnections is the number of open notification sockets
var WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "websocket",
	Name:      "connections",
	Help:      "Number of open WebSocket connections.",
})

// WebSocketDropped counts events not delivered because a client fell behind
var WebSocketDropped = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "websocket",
	Name:      "dropped_messages_total",
	Help:      "Total events dropped because a client send buffer was full.",
})

// Handler serves the default registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.Handler()
}
