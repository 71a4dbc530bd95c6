// Package metrics holds the process-wide prometheus instruments. Collectors
// are registered on the default registry and served by promhttp.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "adbroker_http_requests_total",
		Help: "HTTP requests by route pattern and status code.",
	}, []string{"route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "adbroker_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	DealTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "adbroker_deal_transitions_total",
		Help: "Committed deal state transitions by action.",
	}, []string{"action"})

	SweepRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "adbroker_sweep_runs_total",
		Help: "Background sweep executions by job and result.",
	}, []string{"job", "result"})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Instrument wraps a handler and records count and latency under the given
// route pattern.
func Instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(recorder, r)
		HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(started).Seconds())
	}
}
