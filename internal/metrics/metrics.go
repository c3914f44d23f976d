// Package metrics exposes Prometheus counters and histograms for the
// update engine's feed checks, downloads, and validations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns the process's Prometheus registry and the update-engine
// metrics registered against it.
type Manager struct {
	registry *prometheus.Registry

	checksTotal      *prometheus.CounterVec
	checkDuration    prometheus.Histogram
	updateAvailable  prometheus.Gauge
	downloadsTotal   *prometheus.CounterVec
	downloadDuration prometheus.Histogram
	validationsTotal *prometheus.CounterVec
}

// New builds a Manager with a fresh registry and all metrics registered.
func New() *Manager {
	m := &Manager{registry: prometheus.NewRegistry()}
	m.init()
	m.register()
	return m
}

func (m *Manager) init() {
	m.checksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "updatewing_checks_total",
			Help: "Total number of feed checks performed, by outcome.",
		},
		[]string{"outcome"},
	)

	m.checkDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "updatewing_check_duration_seconds",
		Help:    "Duration of a feed check (fetch, decode, project).",
		Buckets: prometheus.DefBuckets,
	})

	m.updateAvailable = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "updatewing_update_available",
		Help: "1 if the last feed check found a newer release, 0 otherwise.",
	})

	m.downloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "updatewing_downloads_total",
			Help: "Total number of installer downloads, by outcome.",
		},
		[]string{"outcome"},
	)

	m.downloadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "updatewing_download_duration_seconds",
		Help:    "Duration of an installer download.",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
	})

	m.validationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "updatewing_validations_total",
			Help: "Total number of checksum validations, by outcome.",
		},
		[]string{"outcome"},
	)
}

func (m *Manager) register() {
	m.registry.MustRegister(
		m.checksTotal,
		m.checkDuration,
		m.updateAvailable,
		m.downloadsTotal,
		m.downloadDuration,
		m.validationsTotal,
	)
	m.registry.MustRegister(collectors.NewGoCollector())
	m.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// Handler returns the HTTP handler that serves this Manager's registry in
// the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying Prometheus registry.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// RecordCheck records the outcome and duration of a feed check.
func (m *Manager) RecordCheck(outcome string, duration time.Duration, available bool) {
	m.checksTotal.WithLabelValues(outcome).Inc()
	m.checkDuration.Observe(duration.Seconds())
	if available {
		m.updateAvailable.Set(1)
	} else {
		m.updateAvailable.Set(0)
	}
}

// RecordDownload records the outcome and duration of an installer download.
func (m *Manager) RecordDownload(outcome string, duration time.Duration) {
	m.downloadsTotal.WithLabelValues(outcome).Inc()
	m.downloadDuration.Observe(duration.Seconds())
}

// RecordValidation records the outcome of a checksum validation.
func (m *Manager) RecordValidation(outcome string) {
	m.validationsTotal.WithLabelValues(outcome).Inc()
}
