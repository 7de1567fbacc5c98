// Package model defines shared data types used across the ingestion pipeline.
//
// Conventions:
//   - Timestamps: time.Time, always UTC
//   - Prices: nullable floats; a missing price is never coerced to 0
//   - Volume: non-negative int64; a missing volume is stored as 0
//   - Run tokens: 32-char hex, one per invocation
package model
