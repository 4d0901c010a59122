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
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Business metrics
	formSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_submissions_total",
			Help: "Total number of accepted contact and waitlist submissions",
		},
		[]string{"form_type"},
	)

	waitlistDuplicatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "waitlist_duplicates_total",
			Help: "Total number of waitlist submissions rejected as duplicates",
		},
	)

	validationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "validation_failures_total",
			Help: "Total number of request bodies rejected by validation",
		},
		[]string{"kind"},
	)

	authAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of admin login attempts",
		},
		[]string{"status"}, // success, failure
	)

	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Total number of outbound notifications",
		},
		[]string{"channel", "status"}, // email|sms, success|failure
	)

	storageBackend = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "storage_backend_info",
			Help: "Active storage backend, always 1",
		},
		[]string{"backend"},
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request count and latency labelled by the chi route
// pattern, so /api/projects/{id} is one series rather than one per id.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func RecordFormSubmission(formType string) {
	formSubmissionsTotal.WithLabelValues(formType).Inc()
}

func RecordWaitlistDuplicate() {
	waitlistDuplicatesTotal.Inc()
}

func RecordValidationFailure(kind string) {
	validationFailuresTotal.WithLabelValues(kind).Inc()
}

func RecordAuthAttempt(success bool) {
	authAttemptsTotal.WithLabelValues(outcome(success)).Inc()
}

func RecordNotification(channel string, success bool) {
	notificationsTotal.WithLabelValues(channel, outcome(success)).Inc()
}

// SetStorageBackend marks the backend chosen at startup.
func SetStorageBackend(name string) {
	storageBackend.Reset()
	storageBackend.WithLabelValues(name).Set(1)
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
