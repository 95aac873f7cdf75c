package middlewares

import (
	"errors"
	"strconv"
	"time"

	"notehub/cmd/devhub/handlers/httperr"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricsNamespace = "devhub"
	MetricsPath      = "/metrics"
)

// routeLabel is the matched route template ("/api/notes/:id"), falling back
// to the raw path for 404s.
func routeLabel(c *fiber.Ctx) string {
	if route := c.Route(); route != nil && route.Path != "/" {
		return route.Path
	}
	return c.Path()
}

// statusClass folds a status code to "2xx", "4xx" and so on.
func statusClass(status int) string {
	if status < 100 || status > 599 {
		return strconv.Itoa(status)
	}
	return strconv.Itoa(status/100) + "xx"
}

func errorStatus(err error) int {
	var he httperr.E
	if errors.As(err, &he) {
		return he.Status
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

// Metrics instruments one devhub app on its own registry
type Metrics struct {
	reg      *prometheus.Registry
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
}

// NewMetrics registers the request collectors on reg. When streams is not
// nil it is exported as the number of open change streams.
func NewMetrics(reg *prometheus.Registry, streams func() int) *Metrics {
	m := &Metrics{
		reg: reg,
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of devhub HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Total number of devhub HTTP requests",
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.duration, m.requests)

	if streams != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "change_streams",
			Help:      "Open websocket change streams",
		}, func() float64 { return float64(streams()) }))
	}
	return m
}

// Middleware records every request except scrapes of MetricsPath.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == MetricsPath {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		// errors are rendered later by the global handler
		status := c.Response().StatusCode()
		if err != nil {
			status = errorStatus(err)
		}

		labels := []string{c.Method(), routeLabel(c), statusClass(status)}
		m.duration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		m.requests.WithLabelValues(labels...).Inc()
		return err
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{}))
}

// AttachMetrics instruments app and serves reg on MetricsPath.
func AttachMetrics(app *fiber.App, reg *prometheus.Registry, streams func() int) *Metrics {
	m := NewMetrics(reg, streams)
	app.Use(m.Middleware())
	app.Get(MetricsPath, m.Handler())
	return m
}
