// Package metrics exposes Prometheus collectors on a private registry.
package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry     *prometheus.Registry
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	flagsCreated *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests.",
			},
			[]string{"method", "endpoint", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		flagsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flags_created_total",
				Help: "Flagged items created, by assigned priority.",
			},
			[]string{"priority"},
		),
	}
	m.registry.MustRegister(m.requests, m.duration, m.flagsCreated)
	return m
}

// RegisterDBStats publishes the number of in-use pool connections.
func (m *Metrics) RegisterDBStats(stats func() sql.DBStats) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "database_connections_active",
			Help: "Database connections currently in use.",
		},
		func() float64 { return float64(stats().InUse) },
	))
}

// FlagCreated is safe to call on a nil *Metrics.
func (m *Metrics) FlagCreated(p models.Priority) {
	if m == nil {
		return
	}
	m.flagsCreated.WithLabelValues(string(p)).Inc()
}

// Middleware records every request under its route pattern, so /api/flags/1
// and /api/flags/2 share one series.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		endpoint := c.Route().Path
		method := c.Method()
		m.requests.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
		return err
	}
}

func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
