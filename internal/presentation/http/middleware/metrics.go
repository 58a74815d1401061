package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the HTTP-level Prometheus collectors.
type Metrics struct {
	RequestCounter  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ErrorCounter    *prometheus.CounterVec
}

var metricsOnce sync.Once

// NewMetrics creates and registers the HTTP metric collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartengage_requests_total",
				Help: "Total number of API requests.",
			},
			[]string{"method", "endpoint"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "smartengage_request_duration_seconds",
				Help:    "Histogram of latencies for API requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		ErrorCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartengage_errors_total",
				Help: "Total number of API error responses.",
			},
			[]string{"method", "endpoint", "statusCode"},
		),
	}

	metricsOnce.Do(func() {
		prometheus.MustRegister(m.RequestCounter)
		prometheus.MustRegister(m.RequestDuration)
		prometheus.MustRegister(m.ErrorCounter)
	})

	return m
}

// MetricsMiddleware records request counts, latencies, and error responses
// per route.
func (m *Metrics) MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		duration := time.Since(start).Seconds()
		m.RequestCounter.WithLabelValues(c.Request.Method, endpoint).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(duration)

		if status := c.Writer.Status(); status >= 400 {
			m.ErrorCounter.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(status)).Inc()
		}
	}
}
