// Package metrics exposes build and HTTP metrics for Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the docnav collectors on an isolated registry so tests and
// embedded servers never collide with the global default registry.
// All methods are safe on a nil *Metrics.
type Metrics struct {
	Registry *prometheus.Registry

	BuildsTotal          *prometheus.CounterVec
	BuildDurationSeconds *prometheus.HistogramVec
	Violations           *prometheus.GaugeVec
	Documents            prometheus.Gauge
	Sidebars             prometheus.Gauge
	LastValidBuild       prometheus.Gauge

	HTTPRequestsTotal          *prometheus.CounterVec
	HTTPRequestDurationSeconds *prometheus.HistogramVec

	BuildInfo *prometheus.GaugeVec
}

// New creates a Metrics instance with all collectors registered.
func New(version, goVersion string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,

		BuildsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docnav_builds_total",
				Help: "Total number of sidebar builds by final status.",
			},
			[]string{"status"},
		),
		BuildDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docnav_build_phase_duration_seconds",
				Help:    "Duration of each build phase in seconds.",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
			},
			[]string{"phase"},
		),
		Violations: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "docnav_violations",
				Help: "Violations found by the most recent build, by kind.",
			},
			[]string{"kind"},
		),
		Documents: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "docnav_documents",
			Help: "Documents in the most recent corpus.",
		}),
		Sidebars: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "docnav_sidebars",
			Help: "Sidebar trees in the published registry.",
		}),
		LastValidBuild: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "docnav_last_valid_build_timestamp_seconds",
			Help: "Unix time of the last build published to readers.",
		}),

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docnav_http_requests_total",
				Help: "Total number of API requests.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docnav_http_request_duration_seconds",
				Help:    "Duration of API requests in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		BuildInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "docnav_info",
				Help: "Build information for the running docnav instance.",
			},
			[]string{"version", "go_version"},
		),
	}

	reg.MustRegister(
		m.BuildsTotal,
		m.BuildDurationSeconds,
		m.Violations,
		m.Documents,
		m.Sidebars,
		m.LastValidBuild,
		m.HTTPRequestsTotal,
		m.HTTPRequestDurationSeconds,
		m.BuildInfo,
	)

	// Always 1, labels carry the data.
	m.BuildInfo.WithLabelValues(version, goVersion).Set(1)

	return m
}

// ObservePhase records how long one build phase took.
func (m *Metrics) ObservePhase(phase string, d time.Duration) {
	if m == nil {
		return
	}
	m.BuildDurationSeconds.WithLabelValues(phase).Observe(d.Seconds())
}

// BuildFinished records the outcome of a build. byKind replaces the
// previous violation counts.
func (m *Metrics) BuildFinished(status string, byKind map[string]int, documents int) {
	if m == nil {
		return
	}
	m.BuildsTotal.WithLabelValues(status).Inc()
	m.Violations.Reset()
	for kind, n := range byKind {
		m.Violations.WithLabelValues(kind).Set(float64(n))
	}
	m.Documents.Set(float64(documents))
}

// BuildFailed counts a build that stopped before validation.
func (m *Metrics) BuildFailed() {
	if m == nil {
		return
	}
	m.BuildsTotal.WithLabelValues("failed").Inc()
}

// Published records that a build became visible to readers.
func (m *Metrics) Published(sidebars int, at time.Time) {
	if m == nil {
		return
	}
	m.Sidebars.Set(float64(sidebars))
	m.LastValidBuild.Set(float64(at.Unix()))
}

// ObserveRequest records one served API request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDurationSeconds.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler returns an http.Handler that serves the Prometheus metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
