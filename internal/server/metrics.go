package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the validation service.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ValidationsTotal    *prometheus.CounterVec
	ValidationMessages  *prometheus.CounterVec
}

// NewMetrics builds and registers the service collectors on a fresh
// registry, so each server instance owns its own metric state.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint", "status"},
		),
		ValidationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mits_validations_total",
				Help: "Total number of validation requests by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		ValidationMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mits_validation_messages_total",
				Help: "Total number of validation findings by severity",
			},
			[]string{"severity"},
		),
	}

	m.Registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ValidationsTotal,
		m.ValidationMessages,
	)
	return m
}

// Middleware records per-request counters and latency histograms.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, endpoint, status).Observe(duration)
	}
}
