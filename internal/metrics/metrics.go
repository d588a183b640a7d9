package metrics

import (
	"net/http"
	"time"

	"github.com/nholik/pulsecheck/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics wraps Prometheus collectors for pulsecheck. A nil *Metrics is a
// valid no-op receiver so callers never guard recording sites.
type Metrics struct {
	registry            *prometheus.Registry
	passDurationSeconds prometheus.Histogram
	passesTotal         prometheus.Counter
	probesByStatus      *prometheus.GaugeVec
	probeStatus         *prometheus.GaugeVec
	probeLatencySeconds *prometheus.GaugeVec
	lastPassGauge       prometheus.Gauge
}

// New initializes a Metrics registry with all collectors registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		passDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pulsecheck_pass_duration_seconds",
			Help:    "Duration of aggregation passes in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		passesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pulsecheck_passes_total",
			Help: "Total aggregation passes completed.",
		}),
		probesByStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pulsecheck_probes",
			Help: "Probe count by status in the last pass.",
		}, []string{"status"}),
		probeStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pulsecheck_probe_status",
			Help: "Per-probe status severity in the last pass (0 healthy, 1 unknown, 2 degraded, 3 unhealthy).",
		}, []string{"probe"}),
		probeLatencySeconds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pulsecheck_probe_latency_seconds",
			Help: "Per-probe latency in the last pass.",
		}, []string{"probe"}),
		lastPassGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pulsecheck_last_pass_timestamp",
			Help: "Unix timestamp of the last completed pass.",
		}),
	}

	registry.MustRegister(
		m.passDurationSeconds,
		m.passesTotal,
		m.probesByStatus,
		m.probeStatus,
		m.probeLatencySeconds,
		m.lastPassGauge,
	)

	return m
}

// Handler returns a Prometheus HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObservePass records everything a completed pass contributes: duration,
// pass count, per-status totals and per-probe status/latency.
func (m *Metrics) ObservePass(rep health.Report, duration time.Duration) {
	if m == nil {
		return
	}

	m.passDurationSeconds.Observe(duration.Seconds())
	m.passesTotal.Inc()
	m.lastPassGauge.Set(float64(rep.GeneratedAt.Unix()))

	for status, count := range rep.Counts {
		m.probesByStatus.WithLabelValues(status.String()).Set(float64(count))
	}

	for _, r := range rep.Results {
		m.probeStatus.WithLabelValues(r.Name).Set(float64(int(r.Status)))
		m.probeLatencySeconds.WithLabelValues(r.Name).Set(r.Latency.Seconds())
	}
}
