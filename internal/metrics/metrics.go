package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medstock_http_requests_total",
		Help: "Total HTTP requests by method, path and status code",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "medstock_http_request_duration_seconds",
		Help:    "HTTP request latency by method and path",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// WebsocketClients tracks connected state-stream consumers.
	WebsocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "medstock_websocket_clients",
		Help: "Currently connected state WebSocket clients",
	})

	// StoreWritesTotal counts collection-store writes by collection and
	// outcome (ok or error).
	StoreWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medstock_store_writes_total",
		Help: "Collection store writes by collection and outcome",
	}, []string{"collection", "outcome"})

	// DerivedRecordsTotal counts alerts and orders emitted by the
	// derived alerting pass.
	DerivedRecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medstock_derived_records_total",
		Help: "Derived alerting output by record kind",
	}, []string{"kind"})
)
