// Package collector implements the metrics sidecar.
//
// Ingestion accepts structured run summaries over HTTP and folds them
// into process-wide counters and histograms; exposition serves the
// accumulated state in Prometheus text format. The metric registry is
// an explicitly constructed, lifetime-scoped object, not global state:
// every collector instance carries its own.
package collector
