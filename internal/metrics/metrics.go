// Package metrics はPrometheusのメトリクス。/metricsで公開する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics はアプリで使うコレクタ一式。Registryごとに作れるのでテストで衝突しない。
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	cacheRequestsTotal  *prometheus.CounterVec
	productsSyncedTotal prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "endpoint", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request durations.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "endpoint", "status"},
		),
		cacheRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "product_cache_requests_total",
				Help: "Product cache lookups by result (hit/miss/coalesced).",
			},
			[]string{"result"},
		),
		productsSyncedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "products_synced_total",
				Help: "Number of products inserted by catalog sync.",
			},
		),
	}

	m.registry.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.cacheRequestsTotal,
		m.productsSyncedTotal,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// RecordRequest はHTTPリクエスト1件分を記録する。
func (m *Metrics) RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	m.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

// cache.Observer
func (m *Metrics) Hit(string)  { m.cacheRequestsTotal.WithLabelValues("hit").Inc() }
func (m *Metrics) Miss(string) { m.cacheRequestsTotal.WithLabelValues("miss").Inc() }
func (m *Metrics) Coalesced(string) {
	m.cacheRequestsTotal.WithLabelValues("coalesced").Inc()
}

// 同期で追加した件数
func (m *Metrics) ProductsSynced(n int) {
	if n > 0 {
		m.productsSyncedTotal.Add(float64(n))
	}
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler は/metrics用のハンドラ
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware はechoのルート単位(c.Path())で記録する。
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if !c.Response().Committed {
					status = http.StatusInternalServerError
				}
			}

			endpoint := c.Path()
			if endpoint == "" {
				endpoint = "unmatched"
			}
			m.RecordRequest(c.Request().Method, endpoint, status, time.Since(start))
			return err
		}
	}
}

func classifyStatus(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500 && statusCode < 600:
		return "5xx"
	}
	return "unknown_" + strconv.Itoa(statusCode)
}
