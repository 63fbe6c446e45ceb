package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics of one server, in their own registry.
type metrics struct {
	registry *prometheus.Registry

	inFlight        prometheus.Gauge
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	recordsTotal *prometheus.CounterVec
	storeErrors  *prometheus.CounterVec
	orphans      prometheus.Gauge
	outstanding  prometheus.Gauge
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		recordsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dues_records_total",
			Help: "Records appended to the store, by kind.",
		}, []string{"kind"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dues_store_errors_total",
			Help: "Failed store operations, by operation.",
		}, []string{"op"}),
		orphans: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dues_orphaned_payments",
			Help: "Payments matching no unit in the last computed report.",
		}),
		outstanding: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dues_outstanding_total",
			Help: "Total outstanding of the last computed report.",
		}),
	}
	m.registry.MustRegister(
		m.inFlight, m.requestsTotal, m.requestDuration,
		m.recordsTotal, m.storeErrors, m.orphans, m.outstanding,
	)
	return m
}

// handler serves the registry.
func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// instrument measures RPS, latency and in-flight requests. The path label is
// the route pattern, not the raw path, to keep the cardinality bounded.
func (m *metrics) instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.inFlight.Inc()
		start := time.Now()
		c.Next()
		m.inFlight.Dec()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.requestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}
