package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics encapsulates the Prometheus registry and the HTTP server that
// exposes it on /metrics.
type Metrics struct {
	// Server exposes the /metrics endpoint for Prometheus scraping.
	Server *http.Server

	// Registry is the isolated Prometheus registry for this process.
	Registry *prometheus.Registry

	syncedRecords      *prometheus.CounterVec
	failedRecords      *prometheus.CounterVec
	syncDuration       *prometheus.HistogramVec
	scannedRecords     *prometheus.CounterVec
	orphanReferences   *prometheus.GaugeVec
	validationDuration *prometheus.HistogramVec
	rpcRequests        *prometheus.CounterVec
	rpcDuration        *prometheus.HistogramVec
}

// NewMetrics builds an isolated registry, registers the built-in sync,
// validation, and RPC metrics under a constant service label, and
// prepares the HTTP server for the /metrics endpoint.
//
// The server is not started here; RegisterMetricsLifecycle starts and
// stops it with the application.
func NewMetrics(cfg Config) *Metrics {
	// An isolated registry avoids collisions when several components
	// share a process.
	registry := prometheus.NewRegistry()

	wrappedRegistry := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	m := &Metrics{
		Registry: registry,
	}

	m.syncedRecords = createCounterVec("sync_records_total", "Records projected into the vector store", []string{"model", "status"})
	m.failedRecords = createCounterVec("sync_batch_failures_total", "Batches that failed after retries", []string{"model", "stage"})
	m.syncDuration = createHistogramVec("sync_duration_seconds", "Wall-clock duration of model sync runs", []string{"model"}, prometheus.DefBuckets)
	m.scannedRecords = createCounterVec("graph_scanned_records_total", "Records scanned during integrity validation", []string{"model"})
	m.orphanReferences = createGaugeVec("graph_orphan_references", "Orphaned references found in the last validation run", []string{"model"})
	m.validationDuration = createHistogramVec("graph_validation_duration_seconds", "Duration of integrity validation runs", []string{"model"}, prometheus.DefBuckets)
	m.rpcRequests = createCounterVec("erp_rpc_requests_total", "JSON-RPC calls issued to the ERP source", []string{"method", "status"})
	m.rpcDuration = createHistogramVec("erp_rpc_duration_seconds", "Duration of ERP JSON-RPC calls", []string{"method"}, prometheus.DefBuckets)

	wrappedRegistry.MustRegister(
		m.syncedRecords,
		m.failedRecords,
		m.syncDuration,
		m.scannedRecords,
		m.orphanReferences,
		m.validationDuration,
		m.rpcRequests,
		m.rpcDuration,
	)

	if cfg.EnableDefaultCollectors {
		wrappedRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	m.Server = &http.Server{
		Addr:    cfg.Address,
		Handler: handler,
	}

	return m
}
