package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wordsinwords/internal/guess"
)

const metricsNamespace = "wordsinwords"

// Metrics holds the Prometheus collectors exposed on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	checks       *prometheus.CounterVec
	guesses      *prometheus.CounterVec
	completions  prometheus.Counter
	poolFallback prometheus.Gauge
	requests     *prometheus.HistogramVec
}

// NewMetrics builds a registry with Go runtime, process and game collectors.
// players, when non-nil, is reported as the number of in-memory players.
func NewMetrics(players func() int) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "checks_total",
			Help:      "Stateless guess checks by outcome reason.",
		}, []string{"reason"}),
		guesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "guesses_total",
			Help:      "Recorded player guesses by outcome reason.",
		}, []string{"reason"}),
		completions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "completions_total",
			Help:      "Game days completed by players.",
		}),
		poolFallback: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "pool_fallback",
			Help:      "1 when the built-in daily pool is in use.",
		}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.checks,
		m.guesses,
		m.completions,
		m.poolFallback,
		m.requests,
	)
	if players != nil {
		m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "players_in_memory",
			Help:      "Players currently held in memory.",
		}, func() float64 { return float64(players()) }))
	}
	return m
}

// reasonLabel maps an accepted verdict to "ok".
func reasonLabel(r guess.Reason) string {
	if r == guess.ReasonNone {
		return "ok"
	}
	return string(r)
}

func (m *Metrics) observeCheck(r guess.Reason) {
	m.checks.WithLabelValues(reasonLabel(r)).Inc()
}

func (m *Metrics) observeGuess(r guess.Reason, justCompleted bool) {
	m.guesses.WithLabelValues(reasonLabel(r)).Inc()
	if justCompleted {
		m.completions.Inc()
	}
}

func (m *Metrics) setPoolFallback(fallback bool) {
	if fallback {
		m.poolFallback.Set(1)
	} else {
		m.poolFallback.Set(0)
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// middleware records request latency. Unmatched routes share one label.
func (m *Metrics) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
