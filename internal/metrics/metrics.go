package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the application collectors
var Registry = prometheus.NewRegistry()

var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "drops",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "drops",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	reviewsWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "drops",
			Subsystem: "reviews",
			Name:      "written_total",
			Help:      "Reviews created or updated.",
		},
		[]string{"outcome"},
	)

	ordersPlaced = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "drops",
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Orders placed.",
		},
	)
)

func init() {
	Registry.MustRegister(httpRequests, httpDuration, reviewsWritten, ordersPlaced)
}

// Middleware records request counts and latencies per route template
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes Registry in the Prometheus text format
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}

// RecordReview counts a review write
func RecordReview(created bool) {
	if created {
		reviewsWritten.WithLabelValues("created").Inc()
		return
	}
	reviewsWritten.WithLabelValues("updated").Inc()
}

// RecordOrder counts a placed order
func RecordOrder() {
	ordersPlaced.Inc()
}
