package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request counts and latencies per route.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTPMetrics() *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lifedrop",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lifedrop",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	prometheus.MustRegister(m.requests, m.duration)
	return m
}

// GinMiddleware observes every matched route.
func (m *HTTPMetrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		m.requests.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.duration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Metrics carries domain-level counters.
type Metrics struct {
	issuances     *prometheus.CounterVec
	unitsIssued   *prometheus.CounterVec
	outboxRetries prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		issuances: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lifedrop",
			Subsystem: "issuance",
			Name:      "total",
			Help:      "Blood issuance attempts by blood type and result.",
		}, []string{"blood_type", "result"}),
		unitsIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lifedrop",
			Subsystem: "issuance",
			Name:      "units_total",
			Help:      "Units of blood issued by blood type.",
		}, []string{"blood_type"}),
		outboxRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lifedrop",
			Subsystem: "events",
			Name:      "outbox_retries_total",
			Help:      "Outbox dispatch attempts that failed and were retried.",
		}),
	}
	prometheus.MustRegister(m.issuances, m.unitsIssued, m.outboxRetries)
	return m
}

// RecordIssuance tracks the outcome of an issuance attempt.
func (m *Metrics) RecordIssuance(bloodType, result string, units int) {
	m.issuances.WithLabelValues(bloodType, result).Inc()
	if result == "issued" && units > 0 {
		m.unitsIssued.WithLabelValues(bloodType).Add(float64(units))
	}
}

// RecordOutboxRetry tracks a failed dispatch attempt.
func (m *Metrics) RecordOutboxRetry() {
	m.outboxRetries.Inc()
}
