// Package metrics exposes Prometheus counters for the report viewer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vire_reports"

// Metrics holds the viewer's collectors on a private registry. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	CatalogLoads   *prometheus.CounterVec
	ReportFetches  *prometheus.CounterVec
	Selections     *prometheus.CounterVec
	StaleDiscards  prometheus.Counter
	Notifications  prometheus.Counter
	ActiveSessions prometheus.Gauge
}

// New creates and registers all collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		CatalogLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_loads_total",
			Help:      "Catalog load attempts by result.",
		}, []string{"result"}),
		ReportFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_fetches_total",
			Help:      "Report content fetches by result.",
		}, []string{"result"}),
		Selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selections_total",
			Help:      "Report selections by source (initial, nav, switch).",
		}, []string{"source"}),
		StaleDiscards: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_discards_total",
			Help:      "Report results dropped because a newer selection superseded them.",
		}),
		Notifications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "error_notifications_total",
			Help:      "Error messages shown to users.",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Browser sessions currently holding a controller.",
		}),
	}

	reg.MustRegister(
		m.CatalogLoads,
		m.ReportFetches,
		m.Selections,
		m.StaleDiscards,
		m.Notifications,
		m.ActiveSessions,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// CatalogLoaded counts a catalog load with result "ok" or "error".
func (m *Metrics) CatalogLoaded(result string) {
	if m == nil {
		return
	}
	m.CatalogLoads.WithLabelValues(result).Inc()
}

// ReportFetched counts a report fetch with result "ok", "error" or "stale".
func (m *Metrics) ReportFetched(result string) {
	if m == nil {
		return
	}
	m.ReportFetches.WithLabelValues(result).Inc()
	if result == "stale" {
		m.StaleDiscards.Inc()
	}
}

// Selected counts a selection from source.
func (m *Metrics) Selected(source string) {
	if m == nil {
		return
	}
	m.Selections.WithLabelValues(source).Inc()
}

// Notified counts an error notification.
func (m *Metrics) Notified() {
	if m == nil {
		return
	}
	m.Notifications.Inc()
}

// SessionsChanged sets the active session gauge.
func (m *Metrics) SessionsChanged(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}
