// Package metrics exposes Prometheus instrumentation for the module.
//
// It owns an isolated registry, the /metrics HTTP server, and the
// built-in metric families for the sync pipeline, graph validation,
// and the ERP JSON-RPC client:
//
//	sync_records_total{model,status}
//	sync_batch_failures_total{model,stage}
//	sync_duration_seconds{model}
//	graph_scanned_records_total{model}
//	graph_orphan_references{model}
//	graph_validation_duration_seconds{model}
//	erp_rpc_requests_total{method,status}
//	erp_rpc_duration_seconds{method}
//
// All metrics carry a constant service label. Components that need
// additional families use the Create* factories, which register them on
// the same registry.
//
// Configuration comes from the environment:
//
//	METRICS_ADDRESS=:9090              # listen address for /metrics
//	METRICS_SERVICE_NAME=erpvec        # constant service label
//	METRICS_DEFAULT_COLLECTORS=false   # disable Go/process collectors
//
// The FXModule provides *Metrics and the Collector interface and starts
// the HTTP server with the application lifecycle.
package metrics
