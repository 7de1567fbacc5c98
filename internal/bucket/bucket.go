// Package bucket truncates observation timestamps to their canonical
// persistence granularity.
//
// Buckets are always expressed in UTC. Truncation is idempotent and
// zone-insensitive: equivalent instants in different zones map to the
// same bucket.
package bucket

import (
	"time"

	"github.com/acelinojr/data-pipeline-ML-portfolio/internal/model"
)

// Truncate normalizes ts to UTC and zeroes every component finer than
// the granularity: minutes and below for hourly buckets, hours and
// below for daily buckets.
func Truncate(ts time.Time, g model.Granularity) time.Time {
	utc := ts.UTC()
	switch g {
	case model.GranularityDay:
		return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(utc.Year(), utc.Month(), utc.Day(), utc.Hour(), 0, 0, 0, time.UTC)
	}
}
