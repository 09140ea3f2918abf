// Package metrics holds the Prometheus collectors shared by the API and the
// ports importer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marinehub_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marinehub_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marinehub_http_active_requests",
			Help: "In-flight HTTP requests",
		},
	)

	PortsBatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marinehub_ports_import_batches_total",
			Help: "Ports import batches by outcome",
		},
		[]string{"outcome"},
	)

	PortsRowsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marinehub_ports_import_rows_total",
			Help: "Port rows written by the importer",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marinehub_emails_total",
			Help: "Outgoing emails by template and outcome",
		},
		[]string{"template", "outcome"},
	)
)
