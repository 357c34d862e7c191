// Package metrics exposes the clinic backend's Prometheus metrics.
package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// Namespace prefixes every metric name
const Namespace = "clinic"

// Metrics owns a private registry and every collector the services report to.
// Safe for concurrent use.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	stockAdjustments    *prometheus.CounterVec
	stockUnits          *prometheus.CounterVec
	documentsIssued     *prometheus.CounterVec
	numberRetries       *prometheus.CounterVec
	bookings            *prometheus.CounterVec
	eventsHandled       *prometheus.CounterVec
}

// New creates the collectors and registers them, plus the Go runtime and
// process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests handled, by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)
	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	m.stockAdjustments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "inventory",
			Name:      "adjustments_total",
			Help:      "Stock quantity adjustments, by direction and result.",
		},
		[]string{"direction", "result"},
	)
	m.stockUnits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "inventory",
			Name:      "units_moved_total",
			Help:      "Absolute stock units moved by successful adjustments, by direction.",
		},
		[]string{"direction"},
	)
	m.documentsIssued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "documents",
			Name:      "issued_total",
			Help:      "Document numbers issued and committed, by series.",
		},
		[]string{"series"},
	)
	m.numberRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "documents",
			Name:      "number_retries_total",
			Help:      "Document creations retried after a duplicate number, by series.",
		},
		[]string{"series"},
	)
	m.bookings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "booking",
			Name:      "requests_total",
			Help:      "Public booking submissions, by outcome (accepted, rate_limited, invalid, failed).",
		},
		[]string{"outcome"},
	)
	m.eventsHandled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "events",
			Name:      "handled_total",
			Help:      "Domain events seen by idempotent handlers, by event type and outcome.",
		},
		[]string{"event_type", "outcome"},
	)

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.stockAdjustments,
		m.stockUnits,
		m.documentsIssued,
		m.numberRetries,
		m.bookings,
		m.eventsHandled,
	)
	return m
}

// RegisterDBStats exports the connection pool statistics of db, labelled
// with dbName
func (m *Metrics) RegisterDBStats(db *sql.DB, dbName string) error {
	return m.registry.Register(collectors.NewDBStatsCollector(db, dbName))
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		Registry:          m.registry,
	})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Gather collects the current metric families, mainly for tests
func (m *Metrics) Gather() ([]*dto.MetricFamily, error) {
	return m.registry.Gather()
}

// ObserveHTTPRequest records one handled request. route is the gin route
// template, never the raw path, to keep cardinality bounded.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// StockAdjusted records one ledger adjustment attempt
func (m *Metrics) StockAdjusted(direction, result string, units int) {
	m.stockAdjustments.WithLabelValues(direction, result).Inc()
	if result == ResultOK && units != 0 {
		if units < 0 {
			units = -units
		}
		m.stockUnits.WithLabelValues(direction).Add(float64(units))
	}
}

// DocumentIssued counts a committed document number
func (m *Metrics) DocumentIssued(series string) {
	m.documentsIssued.WithLabelValues(series).Inc()
}

// NumberRetried counts a duplicate-number retry
func (m *Metrics) NumberRetried(series string) {
	m.numberRetries.WithLabelValues(series).Inc()
}

// BookingOutcome counts a public booking submission
func (m *Metrics) BookingOutcome(outcome string) {
	m.bookings.WithLabelValues(outcome).Inc()
}

// EventHandled counts an event passing through an idempotent handler
func (m *Metrics) EventHandled(eventType, outcome string) {
	m.eventsHandled.WithLabelValues(eventType, outcome).Inc()
}

// Label values shared with the recorders in the application layer
const (
	ResultOK           = "ok"
	ResultInsufficient = "insufficient"
	ResultNotFound     = "not_found"
	ResultError        = "error"
)
