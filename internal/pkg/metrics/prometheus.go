package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Console HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fitpay",
			Subsystem: "console",
			Name:      "requests_total",
			Help:      "Total number of console HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fitpay",
			Subsystem: "console",
			Name:      "request_duration_seconds",
			Help:      "Console HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fitpay",
			Subsystem: "console",
			Name:      "requests_in_flight",
			Help:      "Number of console HTTP requests currently being served",
		},
	)

	// Backend client metrics
	backendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fitpay",
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Total number of requests sent to the FitPay backend",
		},
		[]string{"code", "method"},
	)

	backendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fitpay",
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "FitPay backend request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method"},
	)

	backendInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fitpay",
			Subsystem: "backend",
			Name:      "requests_in_flight",
			Help:      "Number of backend requests currently waiting for a response",
		},
	)

	// Screen action metrics
	screenFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fitpay",
			Subsystem: "screen",
			Name:      "failures_total",
			Help:      "Backend failures surfaced to the operator",
		},
		[]string{"entity", "op", "kind"},
	)

	enrollmentsActivated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fitpay",
			Subsystem: "enrollment",
			Name:      "activated_total",
			Help:      "Enrollments activated through the workflow",
		},
		[]string{"method"},
	)

	enrollmentTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fitpay",
			Subsystem: "enrollment",
			Name:      "transitions_total",
			Help:      "Enrollment status changes",
		},
		[]string{"from", "to"},
	)

	cepLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fitpay",
			Subsystem: "cep",
			Name:      "lookups_total",
			Help:      "Postal code lookups by outcome",
		},
		[]string{"result"},
	)

	// Dashboard metrics
	dashboardCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "fitpay",
			Subsystem: "dashboard",
			Name:      "count",
			Help:      "Latest dashboard counters",
		},
		[]string{"card"},
	)

	dashboardRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "fitpay",
			Subsystem: "dashboard",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a dashboard refresh in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()

		// Get route pattern from chi
		routePattern := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			routePattern = rctx.RoutePattern()
		}

		status := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(duration)
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// InstrumentTransport wraps next (http.DefaultTransport when nil) with backend
// request counters, latency histogram and in-flight gauge.
func InstrumentTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperInFlight(backendInFlight,
		promhttp.InstrumentRoundTripperCounter(backendRequestsTotal,
			promhttp.InstrumentRoundTripperDuration(backendRequestDuration, next),
		),
	)
}

// RecordScreenFailure records a backend failure shown to the operator
func RecordScreenFailure(entity, op, kind string) {
	screenFailuresTotal.WithLabelValues(entity, op, kind).Inc()
}

// RecordEnrollmentActivated records a confirmed enrollment
func RecordEnrollmentActivated(method string) {
	enrollmentsActivated.WithLabelValues(method).Inc()
}

// RecordEnrollmentTransition records a lock/unlock
func RecordEnrollmentTransition(from, to string) {
	enrollmentTransitions.WithLabelValues(from, to).Inc()
}

// RecordCEPLookup records a postal code lookup outcome (found, not_found, error)
func RecordCEPLookup(result string) {
	cepLookupsTotal.WithLabelValues(result).Inc()
}

// SetDashboardCount sets the gauge of one dashboard card
func SetDashboardCount(card string, count float64) {
	dashboardCount.WithLabelValues(card).Set(count)
}

// RecordDashboardRefresh records the duration of a dashboard refresh
func RecordDashboardRefresh(duration time.Duration) {
	dashboardRefreshDuration.Observe(duration.Seconds())
}
