// Package metrics exposes Prometheus instrumentation for the receipt service
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes
const (
	OutcomeCreated   = "created"
	OutcomeInvalid   = "invalid"
	OutcomeFailed    = "failed"
	OutcomeLocked    = "locked"
	OutcomeDuplicate = "duplicate"
)

var (
	// HTTP metrics
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recepcion_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recepcion_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Receipt metrics
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recepcion_submissions_total",
			Help: "Total number of receipt submissions by outcome",
		},
		[]string{"outcome"},
	)

	SignaturesStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recepcion_signatures_stored_total",
			Help: "Total number of signature images written to the bucket",
		},
		[]string{"signer"},
	)

	// Database pool metrics
	PoolConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recepcion_db_pool_connections",
			Help: "Database pool connections by state",
		},
		[]string{"state"},
	)
)

func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordRequest(method, route string, status int, elapsed time.Duration) {
	RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func RecordSubmission(outcome string) {
	SubmissionsTotal.WithLabelValues(outcome).Inc()
}

func RecordSignature(signer string) {
	SignaturesStored.WithLabelValues(signer).Inc()
}

func RecordPool(acquired, idle, total int32) {
	PoolConnections.WithLabelValues("acquired").Set(float64(acquired))
	PoolConnections.WithLabelValues("idle").Set(float64(idle))
	PoolConnections.WithLabelValues("max").Set(float64(total))
}
