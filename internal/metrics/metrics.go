// Package metrics exposes Prometheus counters for store mutations, logins
// and HTTP latency on a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "recolecta"

// Manager holds the application's collectors.
type Manager struct {
	Registry       *prometheus.Registry
	StoreMutations *prometheus.CounterVec
	LoginAttempts  *prometheus.CounterVec
	HTTPLatency    *prometheus.HistogramVec
}

// NewManager registers all collectors, plus the Go runtime and process
// collectors, on a fresh registry.
func NewManager() *Manager {
	registry := prometheus.NewRegistry()

	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_mutations_total",
		Help:      "Store mutations by store, operation and outcome.",
	}, []string{"store", "op", "outcome"})

	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Login attempts by outcome.",
	}, []string{"outcome"})

	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	registry.MustRegister(
		mutations,
		logins,
		latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Manager{
		Registry:       registry,
		StoreMutations: mutations,
		LoginAttempts:  logins,
		HTTPLatency:    latency,
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveMutation counts a store operation. Logins also feed LoginAttempts.
func (m *Manager) ObserveMutation(store, op string, err error) {
	if m == nil {
		return
	}
	m.StoreMutations.WithLabelValues(store, op, outcome(err)).Inc()
	if op == "login" {
		m.LoginAttempts.WithLabelValues(outcome(err)).Inc()
	}
}

// Middleware records request latency keyed by the matched route template.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPLatency.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
