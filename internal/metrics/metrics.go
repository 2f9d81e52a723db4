// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "brevly"

const (
	ResultSuccess = "success"
	ResultError   = "error"
)

type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	linksCreated    prometheus.Counter
	linkRedirects   prometheus.Counter
	linkExports     *prometheus.CounterVec
}

// New registers every collector on a dedicated registry, so independent instances
// (one per test server, for example) never collide.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		linksCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "links_created_total",
			Help:      "Total number of links created.",
		}),
		linkRedirects: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "link_redirects_total",
			Help:      "Total number of resolved aliases.",
		}),
		linkExports: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "link_exports_total",
			Help:      "Total number of links report exports by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) LinkCreated() {
	m.linksCreated.Inc()
}

func (m *Metrics) LinkRedirected() {
	m.linkRedirects.Inc()
}

func (m *Metrics) LinksExported(err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	m.linkExports.WithLabelValues(result).Inc()
}

// Middleware records request count and latency labelled with the matched chi route
// pattern rather than the raw path, which keeps label cardinality bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
