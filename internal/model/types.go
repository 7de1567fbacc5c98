package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v6"
)

// -----------------------------------------------------------------------------
// Observations
// -----------------------------------------------------------------------------

// Bar is one normalized OHLCV observation.
// Price fields stay null when the provider reports no value.
type Bar struct {
	Timestamp time.Time  // UTC
	Open      null.Float
	High      null.Float
	Low       null.Float
	Close     null.Float
	Volume    int64 // never negative; missing volume is 0
}

// Series is a flat, UTC-indexed sequence of bars for one symbol,
// sorted by timestamp ascending.
type Series struct {
	Symbol string
	Bars   []Bar
}

// Empty reports whether the series carries no observations.
func (s Series) Empty() bool {
	return len(s.Bars) == 0
}

// QualityFlags summarizes a series' completeness and regularity.
// For an empty series only NRows and Empty are meaningful.
type QualityFlags struct {
	NRows          int            `json:"n_rows"`
	NNulls         int            `json:"n_nulls,omitempty"`
	Freq           *time.Duration `json:"freq,omitempty"`           // nil when not inferable
	Gaps           *int           `json:"gaps,omitempty"`           // nil when Freq is nil
	ZeroVolumeRows int            `json:"zero_volume_rows"`
	Empty          bool           `json:"empty,omitempty"`
}

// -----------------------------------------------------------------------------
// Granularity
// -----------------------------------------------------------------------------

// Granularity is the canonical bucket width for persisted timestamps.
type Granularity int

const (
	GranularityHour Granularity = iota
	GranularityDay
)

func (g Granularity) String() string {
	switch g {
	case GranularityHour:
		return "hour"
	case GranularityDay:
		return "day"
	default:
		return fmt.Sprintf("granularity(%d)", int(g))
	}
}

// ParseGranularity maps a provider sampling interval (e.g. "1h", "1d")
// to the bucket granularity used for persistence.
func ParseGranularity(interval string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(interval)) {
	case "1h", "60m", "hour", "hourly":
		return GranularityHour, nil
	case "1d", "day", "daily":
		return GranularityDay, nil
	default:
		return 0, fmt.Errorf("unsupported interval %q", interval)
	}
}

// -----------------------------------------------------------------------------
// Runs
// -----------------------------------------------------------------------------

// NewScrapeID generates the run token shared by every row one invocation writes.
func NewScrapeID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// RunSummary aggregates the outcome of one scrape or backfill invocation.
type RunSummary struct {
	ScrapeID string        `json:"scrape_id"`
	Success  int           `json:"success"`
	Empty    int           `json:"empty"`
	Errors   int           `json:"errors"`
	Rows     int64         `json:"rows"`
	Elapsed  time.Duration `json:"elapsed"`
}
