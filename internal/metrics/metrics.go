// Package metrics exposes Prometheus instrumentation for the transcoding
// pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	jobsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "videoforge_jobs_started_total",
			Help: "Number of transcoding jobs accepted for processing",
		},
	)

	jobsCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "videoforge_jobs_completed_total",
			Help: "Number of transcoding jobs that reached Done",
		},
	)

	jobsSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "videoforge_jobs_skipped_total",
			Help: "Number of duplicate triggers short-circuited by the idempotency gate",
		},
	)

	jobsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videoforge_jobs_failed_total",
			Help: "Number of aborted transcoding jobs by failure kind",
		},
		[]string{"kind"},
	)

	jobDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "videoforge_job_duration_seconds",
			Help:    "End-to-end duration of successful transcoding jobs",
			Buckets: []float64{5, 15, 30, 60, 120, 300, 600, 1800},
		},
	)
)

func init() {
	prometheus.MustRegister(jobsStarted)
	prometheus.MustRegister(jobsCompleted)
	prometheus.MustRegister(jobsSkipped)
	prometheus.MustRegister(jobsFailed)
	prometheus.MustRegister(jobDuration)
}

// JobStarted records a job entering the pipeline.
func JobStarted() { jobsStarted.Inc() }

// JobCompleted records a successful run and its duration.
func JobCompleted(d time.Duration) {
	jobsCompleted.Inc()
	jobDuration.Observe(d.Seconds())
}

// JobSkipped records a duplicate trigger that performed no work.
func JobSkipped() { jobsSkipped.Inc() }

// JobFailed records an aborted run by failure kind.
func JobFailed(kind string) { jobsFailed.WithLabelValues(kind).Inc() }

// StartServer serves /metrics on addr in a background goroutine.
func StartServer(addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	logger.Info("metrics server starting", zap.String("addr", addr))
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()
}
