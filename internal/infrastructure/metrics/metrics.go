// Package metrics exposes Prometheus collectors for HTTP traffic and
// registry events.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/procureflow/registry/internal/application/dispatcher"
	"github.com/procureflow/registry/internal/domain/event"
)

const namespace = "procureflow"

// Metrics owns a private registry so tests and multiple servers don't collide
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	events       *prometheus.CounterVec
	transitions  *prometheus.CounterVec
	imported     *prometheus.CounterVec
	exports      *prometheus.CounterVec
}

// New registers every collector, plus the Go and process collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Registry events by type.",
		}, []string{"type"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "station_transitions_total",
			Help:      "Workflow station transitions by station and target state.",
		}, []string{"station", "to"}),
		imported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_records_total",
			Help:      "Spreadsheet rows seen by import, split into detected and added.",
		}, []string{"result"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Generated exports by format.",
		}, []string{"format"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.events,
		m.transitions,
		m.imported,
		m.exports,
	)
	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordCount exposes the registry size, read through fn on every scrape
func (m *Metrics) RecordCount(fn func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "records",
		Help:      "Procurement records currently stored.",
	}, func() float64 { return float64(fn()) }))
}

// Middleware counts and times every request by its route template
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Subscribe feeds the event counters from d
func (m *Metrics) Subscribe(d dispatcher.Dispatcher) {
	d.SubscribeAll("metrics.events", func(ctx context.Context, evt *event.Event) error {
		m.events.WithLabelValues(evt.Type.String()).Inc()
		return nil
	})

	d.Subscribe(event.TypeStationTransition, "metrics.transitions", func(ctx context.Context, evt *event.Event) error {
		m.transitions.WithLabelValues(evt.GetPayloadString("station"), evt.GetPayloadString("to")).Inc()
		return nil
	})

	d.Subscribe(event.TypeImportCompleted, "metrics.import", func(ctx context.Context, evt *event.Event) error {
		m.imported.WithLabelValues("detected").Add(float64(evt.GetPayloadInt("detected")))
		m.imported.WithLabelValues("added").Add(float64(evt.GetPayloadInt("added")))
		return nil
	})

	d.Subscribe(event.TypeExportRendered, "metrics.export", func(ctx context.Context, evt *event.Event) error {
		m.exports.WithLabelValues(evt.GetPayloadString("format")).Inc()
		return nil
	})
}
