// Package scrape drives the per-symbol fetch → assess → upsert sequence.
//
// Symbols are processed strictly one at a time: the provider client's
// minimum-interval contract assumes serialized calls from one caller.
// Every run gets one scrape id, stamped on every row it writes, and
// ends by handing its summary to the metrics collector. Metrics
// delivery is best-effort; a run's result never depends on it.
package scrape
