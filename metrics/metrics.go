// Package metrics exposes Prometheus instrumentation for the HTTP layer and
// for cafe and mail outcomes.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry        *prometheus.Registry
	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cafeMutations   *prometheus.CounterVec
	mailDispatches  *prometheus.CounterVec
}

// New builds a private registry so that several engines (tests) can
// coexist in one process.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cafes",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cafes",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		cafeMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cafes",
			Name:      "mutations_total",
			Help:      "Cafe create/update/delete/import operations by result.",
		}, []string{"op", "result"}),
		mailDispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cafes",
			Name:      "mail_dispatch_total",
			Help:      "Cafe request e-mails by result.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestTotal,
		m.requestDuration,
		m.cafeMutations,
		m.mailDispatches,
	)
	return m
}

// Middleware records every request under its route pattern, not the raw
// path, to keep label cardinality bounded.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.requestTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

func (m *Metrics) CafeMutation(op string, err error) {
	m.cafeMutations.WithLabelValues(op, result(err)).Inc()
}

func (m *Metrics) MailDispatch(err error) {
	m.mailDispatches.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
