package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector records the module's built-in metrics and creates dynamic
// ones. It is implemented by the concrete *Metrics type.
type Collector interface {
	// RecordSyncRun records the outcome of one model sync run.
	RecordSyncRun(model string, synced, failed int, d time.Duration)

	// IncrementBatchFailures counts a batch that failed at the given
	// pipeline stage.
	IncrementBatchFailures(model, stage string)

	// RecordValidation records the outcome of one integrity validation
	// run for a model.
	RecordValidation(model string, scanned, orphans int, d time.Duration)

	// IncrementRPCRequests counts a JSON-RPC call by method and status.
	IncrementRPCRequests(method, status string)

	// RecordRPCDuration records the duration of a JSON-RPC call.
	RecordRPCDuration(start time.Time, method string)

	// CreateCounter creates and registers a new CounterVec.
	CreateCounter(name, help string, labels []string) *prometheus.CounterVec

	// CreateHistogram creates and registers a new HistogramVec.
	CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec

	// CreateGauge creates and registers a new GaugeVec.
	CreateGauge(name, help string, labels []string) *prometheus.GaugeVec
}
