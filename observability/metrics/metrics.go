// Package metrics wires the vaultd daemon's Prometheus instrumentation:
// request counters/histograms plus protocol-health gauges, with no
// distributed-tracing layer since vaultd is a single-process core with no
// cross-service span graph to record.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the request and domain counters exposed on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	requests  *prometheus.CounterVec
	durations *prometheus.HistogramVec

	opsTotal      *prometheus.CounterVec
	opRejections  *prometheus.CounterVec
	crGauge       prometheus.Gauge
	roundingGauge prometheus.Gauge
}

// New registers the vaultd metric set against a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vaultd",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests handled by vaultd.",
		}, []string{"route", "method", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vaultd",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency observed by vaultd.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		opsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vaultd",
			Name:      "operations_total",
			Help:      "Mint/redeem operations accepted by the engine.",
		}, []string{"operation"}),
		opRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vaultd",
			Name:      "operation_rejections_total",
			Help:      "Mint/redeem operations rejected by the engine, by reason.",
		}, []string{"operation", "reason"}),
		crGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vaultd",
			Name:      "collateral_ratio_bps",
			Help:      "Current collateral ratio in basis points.",
		}),
		roundingGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vaultd",
			Name:      "rounding_reserve_lamports",
			Help:      "Accumulated rounding-residue reserve.",
		}),
	}

	registry.MustRegister(m.requests, m.durations, m.opsTotal, m.opRejections, m.crGauge, m.roundingGauge)
	return m
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per route.
func (m *Metrics) Middleware(route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			m.requests.WithLabelValues(route, r.Method, http.StatusText(rec.status)).Inc()
			m.durations.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
		})
	}
}

// RecordOperation increments the accepted-operation counter.
func (m *Metrics) RecordOperation(operation string) {
	m.opsTotal.WithLabelValues(operation).Inc()
}

// RecordRejection increments the rejected-operation counter for a reason.
func (m *Metrics) RecordRejection(operation, reason string) {
	m.opRejections.WithLabelValues(operation, reason).Inc()
}

// SetCollateralRatio publishes the latest CR snapshot.
func (m *Metrics) SetCollateralRatio(crBps uint64) {
	m.crGauge.Set(float64(crBps))
}

// SetRoundingReserve publishes the latest rounding-reserve level.
func (m *Metrics) SetRoundingReserve(lamports uint64) {
	m.roundingGauge.Set(float64(lamports))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
