package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RecordSyncRun records the outcome of one model sync run.
func (m *Metrics) RecordSyncRun(model string, synced, failed int, d time.Duration) {
	m.syncedRecords.WithLabelValues(model, "synced").Add(float64(synced))
	m.syncedRecords.WithLabelValues(model, "failed").Add(float64(failed))
	m.syncDuration.WithLabelValues(model).Observe(d.Seconds())
}

// IncrementBatchFailures counts a batch that failed at the given stage.
func (m *Metrics) IncrementBatchFailures(model, stage string) {
	m.failedRecords.WithLabelValues(model, stage).Inc()
}

// RecordValidation records the outcome of one integrity validation run.
// The orphan gauge reflects the latest run only.
func (m *Metrics) RecordValidation(model string, scanned, orphans int, d time.Duration) {
	m.scannedRecords.WithLabelValues(model).Add(float64(scanned))
	m.orphanReferences.WithLabelValues(model).Set(float64(orphans))
	m.validationDuration.WithLabelValues(model).Observe(d.Seconds())
}

// IncrementRPCRequests counts a JSON-RPC call by method and status.
func (m *Metrics) IncrementRPCRequests(method, status string) {
	m.rpcRequests.WithLabelValues(method, status).Inc()
}

// RecordRPCDuration records the duration of a JSON-RPC call.
// Example: defer m.RecordRPCDuration(time.Now(), "search_read")
func (m *Metrics) RecordRPCDuration(start time.Time, method string) {
	m.rpcDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

// StatusLabel converts an HTTP status code into a metric label value.
func StatusLabel(code int) string {
	return strconv.Itoa(code)
}

// CreateCounter creates and registers a new CounterVec.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := createCounterVec(name, help, labels)
	m.Registry.MustRegister(counter)
	return counter
}

// CreateHistogram creates and registers a new HistogramVec.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	hist := createHistogramVec(name, help, labels, buckets)
	m.Registry.MustRegister(hist)
	return hist
}

// CreateGauge creates and registers a new GaugeVec.
func (m *Metrics) CreateGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := createGaugeVec(name, help, labels)
	m.Registry.MustRegister(gauge)
	return gauge
}

func createCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
}

func createHistogramVec(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    name,
			Help:    help,
			Buckets: buckets,
		},
		labels,
	)
}

func createGaugeVec(name, help string, labels []string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
}
