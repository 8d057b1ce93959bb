package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edulane_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "edulane_http_request_duration_seconds",
			Help:    "HTTP request latency distribution.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "edulane_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "edulane_db_query_duration_seconds",
			Help:    "Database query latency distribution.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation", "table"},
	)

	enrollmentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "edulane_enrollments_total",
			Help: "Total number of course enrollments created.",
		},
	)

	courseCompletionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "edulane_course_completions_total",
			Help: "Total number of enrollments that reached 100% progress.",
		},
	)

	certificatesIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "edulane_certificates_issued_total",
			Help: "Total number of course certificates issued.",
		},
	)

	streamSessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edulane_stream_sessions_total",
			Help: "Streaming session lifecycle events.",
		},
		[]string{"event"},
	)
)

// Middleware returns a Gin middleware that records request metrics.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpRequestsInFlight.Inc()

		c.Next()

		httpRequestsInFlight.Dec()

		// Use the route template, not the raw URL, to keep cardinality bounded.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordDBQuery records a database query observation from the GORM logger.
func RecordDBQuery(operation, table string, elapsed time.Duration) {
	dbQueryDuration.WithLabelValues(operation, table).Observe(elapsed.Seconds())
}

// RecordEnrollment counts a new course enrollment.
func RecordEnrollment() {
	enrollmentsTotal.Inc()
}

// RecordCourseCompletion counts an enrollment reaching completion.
func RecordCourseCompletion() {
	courseCompletionsTotal.Inc()
}

// RecordCertificateIssued counts an issued certificate.
func RecordCertificateIssued() {
	certificatesIssuedTotal.Inc()
}

// RecordStreamSession counts a streaming session lifecycle event ("started" or "ended").
func RecordStreamSession(event string) {
	streamSessionsTotal.WithLabelValues(event).Inc()
}
