package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	RealtimeActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "realtime_active_connections",
			Help: "Number of open realtime websocket connections",
		},
	)

	RealtimeConnectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "realtime_connections_total",
			Help: "Total number of accepted realtime websocket connections",
		},
	)

	AuthEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_events_total",
			Help: "Register and login attempts by result",
		},
		[]string{"event", "result"}, // event: register, login
	)

	ProjectsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "projects_created_total",
			Help: "Total number of projects created",
		},
	)

	ProjectCacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "project_cache_lookups_total",
			Help: "Project cache lookups by result",
		},
		[]string{"result"}, // hit, miss
	)

	JobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_runs_total",
			Help: "Scheduled job runs by result",
		},
		[]string{"job", "result"}, // result: ok, error, skipped
	)
)

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func RealtimeConnected() {
	RealtimeConnectionsTotal.Inc()
	RealtimeActiveConnections.Inc()
}

func RealtimeDisconnected() {
	RealtimeActiveConnections.Dec()
}

func IncrementAuthEvent(event, result string) {
	AuthEventsTotal.WithLabelValues(event, result).Inc()
}

func IncrementProjectCreated() {
	ProjectsCreatedTotal.Inc()
}

func RecordProjectCacheLookup(hit bool) {
	if hit {
		ProjectCacheLookupsTotal.WithLabelValues("hit").Inc()
		return
	}
	ProjectCacheLookupsTotal.WithLabelValues("miss").Inc()
}

func IncrementJobRun(job, result string) {
	JobRunsTotal.WithLabelValues(job, result).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
