package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Worker metrics
	WorkerExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickerpulse_worker_executions_total",
			Help: "Total number of worker executions",
		},
		[]string{"worker", "status"}, // status: success|error
	)

	WorkerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tickerpulse_worker_duration_seconds",
			Help:    "Worker execution duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"worker"},
	)

	// Pipeline metrics
	SyncRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickerpulse_sync_runs_total",
			Help: "Total number of per-symbol sync runs",
		},
		[]string{"symbol", "status"}, // status: success|error|locked
	)

	SyncPagesFetched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickerpulse_sync_pages_fetched_total",
			Help: "Total provider pages fetched during sync runs",
		},
		[]string{"symbol"},
	)

	MessagesStored = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickerpulse_messages_stored_total",
			Help: "Total new messages stored by the pipeline",
		},
		[]string{"symbol", "kind"}, // kind: clean|spam
	)
)

func init() {
	prometheus.MustRegister(
		WorkerExecutions,
		WorkerDuration,
		SyncRuns,
		SyncPagesFetched,
		MessagesStored,
	)
}

// Serve exposes /metrics on the given address. Blocks, so run in a
// goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server.ListenAndServe()
}
