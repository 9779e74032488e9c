package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce             sync.Once
	httpRequestsTotal        *prometheus.CounterVec
	httpLatencySeconds       *prometheus.HistogramVec
	httpErrorsTotal          *prometheus.CounterVec
	resultRecomputesTotal    *prometheus.CounterVec
	recomputeDurationSeconds prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jcr_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "jcr_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jcr_http_errors_total",
			Help: "Total number of error responses returned.",
		}, []string{"method", "route", "status"})

		resultRecomputesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jcr_result_recomputes_total",
			Help: "Total number of division result recomputations.",
		}, []string{"outcome"})

		recomputeDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "jcr_result_recompute_duration_seconds",
			Help:    "Duration of division result recomputations.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			resultRecomputesTotal,
			recomputeDurationSeconds,
		)
	})
}

// HTTPRequests exposes the counter for served requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for served requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// ObserveRecompute records one division recomputation with its outcome and
// duration.
func ObserveRecompute(outcome string, elapsed time.Duration) {
	RegisterMetrics()
	resultRecomputesTotal.WithLabelValues(outcome).Inc()
	recomputeDurationSeconds.Observe(elapsed.Seconds())
}
