// Package provider implements the quote-provider client.
//
// The client:
//   - Enforces a requests-per-second ceiling (minimum inter-call spacing)
//   - Retries transient failures with exponential backoff, capped at 60s
//   - Degrades to an empty series when retries are exhausted; fetches
//     never surface an error to the caller
//   - Normalizes every response into a flat, UTC-indexed OHLCV series
package provider
