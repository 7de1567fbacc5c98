// Package quality computes completeness and regularity diagnostics for a
// normalized series. Assessment is a pure function: no I/O, no clock.
package quality

import (
	"sort"
	"time"

	"github.com/acelinojr/data-pipeline-ML-portfolio/internal/model"
)

// Assess computes quality flags for a normalized series.
//
// An empty series yields {n_rows: 0, empty: true} and nothing else.
// Otherwise:
//   - n_nulls counts missing open/high/low/close values across all rows
//   - freq is the inferred sampling interval, nil when not inferable
//   - gaps is the expected calendar at freq minus the distinct timestamps
//     actually present, nil when freq is nil
//   - zero_volume_rows counts rows whose volume is exactly zero
func Assess(s model.Series) model.QualityFlags {
	flags := model.QualityFlags{NRows: len(s.Bars)}
	if s.Empty() {
		flags.Empty = true
		return flags
	}

	for _, b := range s.Bars {
		for _, f := range []bool{b.Open.Valid, b.High.Valid, b.Low.Valid, b.Close.Valid} {
			if !f {
				flags.NNulls++
			}
		}
		if b.Volume == 0 {
			flags.ZeroVolumeRows++
		}
	}

	ts := distinctSorted(s.Bars)
	if freq, ok := inferFreq(ts); ok {
		flags.Freq = &freq
		span := ts[len(ts)-1].Sub(ts[0])
		expected := int(span/freq) + 1
		gaps := expected - len(ts)
		flags.Gaps = &gaps
	}

	return flags
}

// distinctSorted returns the series' distinct timestamps in ascending order.
func distinctSorted(bars []model.Bar) []time.Time {
	ts := make([]time.Time, 0, len(bars))
	seen := make(map[int64]struct{}, len(bars))
	for _, b := range bars {
		k := b.Timestamp.UnixNano()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		ts = append(ts, b.Timestamp)
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
	return ts
}

// inferFreq infers the sampling interval as the most common positive
// delta between consecutive timestamps. A single-row series or a tie
// with no clear majority is not inferable.
func inferFreq(ts []time.Time) (time.Duration, bool) {
	if len(ts) < 2 {
		return 0, false
	}

	counts := make(map[time.Duration]int)
	for i := 1; i < len(ts); i++ {
		d := ts[i].Sub(ts[i-1])
		if d > 0 {
			counts[d]++
		}
	}
	if len(counts) == 0 {
		return 0, false
	}

	var best time.Duration
	bestCount := 0
	for d, n := range counts {
		if n > bestCount || (n == bestCount && d < best) {
			best, bestCount = d, n
		}
	}

	// The modal delta must explain a majority of the steps, and every
	// other observed delta must be a whole multiple of it (a gap), or
	// the series has no regular calendar to measure gaps against.
	if bestCount*2 <= len(ts)-1 {
		return 0, false
	}
	for d := range counts {
		if d%best != 0 {
			return 0, false
		}
	}
	return best, true
}
