// Package metrics provides Prometheus instrumentation: the standard HTTP
// middleware plus the payment, outbox, and notification counters the
// marketplace flows increment.
//
// Wire once at boot:
//
//	r.Use(metrics.Middleware())
//	r.HandleFunc("/metrics", metrics.Handler())
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestDuration tracks HTTP request latency by method/path/status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "workhive",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts all HTTP requests.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "workhive",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// RequestInFlight tracks requests currently being served.
	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "workhive",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	// GatewayRequestDuration tracks payment-gateway call latency per operation.
	GatewayRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "workhive",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Duration of payment-gateway API calls in seconds.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"operation"}, // create_order | capture | refund | fetch | probe
	)

	// PaymentsVerified counts webhook signature verifications by result.
	PaymentsVerified = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "workhive",
			Subsystem: "payments",
			Name:      "verified_total",
			Help:      "Payment signature verifications by result.",
		},
		[]string{"result"}, // ok | mismatch
	)

	// OutboxJobs counts processed outbox jobs by type and status.
	OutboxJobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "workhive",
			Subsystem: "outbox",
			Name:      "jobs_total",
			Help:      "Outbox jobs processed by type and status.",
		},
		[]string{"job", "status"}, // status: success | failed
	)

	// NotificationsFanned counts admin notification rows created.
	NotificationsFanned = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "workhive",
		Subsystem: "notify",
		Name:      "fanout_rows_total",
		Help:      "Admin notification rows written by the fan-out job.",
	})
)

var registry = prometheus.NewRegistry()

func init() {
	registry.MustRegister(
		RequestDuration, RequestTotal, RequestInFlight,
		GatewayRequestDuration, PaymentsVerified, OutboxJobs, NotificationsFanned,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the /metrics scrape endpoint.
func Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return h.ServeHTTP
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware instruments every request.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			status := strconv.Itoa(sw.status)
			RequestTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
			RequestDuration.WithLabelValues(r.Method, r.URL.Path, status).
				Observe(time.Since(start).Seconds())
		})
	}
}
