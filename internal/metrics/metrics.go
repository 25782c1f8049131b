package metrics

import (
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

	// Snapshot writes by trigger kind
	SnapshotsWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshots_written_total",
			Help: "Total snapshot upserts, labelled by the trigger that produced them",
		},
		[]string{"trigger"},
	)

	// Full sweep outcomes
	SweepUsersProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweep_users_processed_total",
			Help: "Users processed by full sweeps, labelled by outcome",
		},
		[]string{"outcome"}, // succeeded|skipped|failed
	)
	SweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sweep_duration_seconds",
			Help:    "Wall-clock duration of full sweep runs",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
	)

	// Worker queue
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
)

// Handler serves the /metrics endpoint.
var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(SnapshotsWritten)
	prometheus.MustRegister(SweepUsersProcessed)
	prometheus.MustRegister(SweepDuration)
	prometheus.MustRegister(WorkerQueueDepth)
}
