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
			Name: "career_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "career_http_request_duration_seconds",
			Help:    "HTTP request latency distribution.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "career_db_query_duration_seconds",
			Help:    "Database query latency by operation and table.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation", "table"},
	)

	progressUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_progress_updates_total",
			Help: "Module progress submissions by incoming status.",
		},
		[]string{"status"},
	)

	aggregateFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_progress_secondary_failures_total",
			Help: "Swallowed failures of the aggregate/access-touch steps.",
		},
		[]string{"step"},
	)
)

// Middleware collects request counts and latencies per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		httpRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordDBQuery records a database query observation. Called from the GORM logger.
func RecordDBQuery(operation, table string, elapsed time.Duration) {
	dbQueryDuration.WithLabelValues(operation, table).Observe(elapsed.Seconds())
}

// RecordProgressUpdate counts an accepted module progress submission.
func RecordProgressUpdate(status string) {
	progressUpdatesTotal.WithLabelValues(status).Inc()
}

// RecordSecondaryFailure counts a swallowed aggregate or access-touch failure.
func RecordSecondaryFailure(step string) {
	aggregateFailuresTotal.WithLabelValues(step).Inc()
}
