// Package metrics holds Prometheus instruments that are used across the
// renderer.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ActiveConfigs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tierzero_active_configs",
			Help: "Number of domain configs currently cached in memory.",
		})

	ConfigLoadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tierzero_config_load_total",
			Help: "Cumulative number of domain configs successfully loaded.",
		})

	ConfigLoadErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tierzero_config_load_errors_total",
			Help: "Cumulative number of domain config load failures by reason.",
		}, []string{"reason"})

	ConfigEvictTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tierzero_config_evict_total",
			Help: "Cumulative number of domain configs dropped from the cache by cause.",
		}, []string{"cause"})

	PageRenderTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tierzero_page_render_total",
			Help: "Pages rendered by layout.",
		}, []string{"layout"})

	LeadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tierzero_leads_total",
			Help: "Leads stored by type and source.",
		}, []string{"type", "source"})

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tierzero_http_requests_total",
			Help: "HTTP requests by method and status class.",
		}, []string{"method", "code"})

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tierzero_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"})
)

func init() {
	prometheus.MustRegister(
		ActiveConfigs,
		ConfigLoadTotal,
		ConfigLoadErrorsTotal,
		ConfigEvictTotal,
		PageRenderTotal,
		LeadsTotal,
		HTTPRequestsTotal,
		HTTPDuration,
	)
}
