// Package writer persists normalized series into the warehouse.
//
// All batches of one call share a single explicit transaction: either
// every row of the call is applied, or none is. Conflicting
// (symbol, timestamp) keys are overwritten, so re-ingesting a window is
// idempotent. change_percent is the exception: it is written null on
// insert, never touched on conflict, and owned by a downstream job.
package writer
