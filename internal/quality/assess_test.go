package quality

import (
	"testing"
	"time"

	"github.com/guregu/null/v6"

	"github.com/acelinojr/data-pipeline-ML-portfolio/internal/model"
)

// regularSeries builds n hourly bars starting at a fixed origin, fully
// populated prices and non-zero volume.
func regularSeries(n int) model.Series {
	origin := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	s := model.Series{Symbol: "BTC-USD"}
	for i := 0; i < n; i++ {
		s.Bars = append(s.Bars, model.Bar{
			Timestamp: origin.Add(time.Duration(i) * time.Hour),
			Open:      null.FloatFrom(100),
			High:      null.FloatFrom(101),
			Low:       null.FloatFrom(99),
			Close:     null.FloatFrom(100.5),
			Volume:    10,
		})
	}
	return s
}

func TestAssess_Empty(t *testing.T) {
	flags := Assess(model.Series{Symbol: "BTC-USD"})

	if flags.NRows != 0 {
		t.Errorf("NRows = %d, want 0", flags.NRows)
	}
	if !flags.Empty {
		t.Error("Empty = false, want true")
	}
	if flags.Freq != nil {
		t.Errorf("Freq = %v, want nil (no inference on empty series)", *flags.Freq)
	}
	if flags.Gaps != nil {
		t.Errorf("Gaps = %v, want nil", *flags.Gaps)
	}
}

func TestAssess_RegularSeriesHasNoGaps(t *testing.T) {
	flags := Assess(regularSeries(8))

	if flags.NRows != 8 {
		t.Errorf("NRows = %d, want 8", flags.NRows)
	}
	if flags.NNulls != 0 {
		t.Errorf("NNulls = %d, want 0", flags.NNulls)
	}
	if flags.Freq == nil {
		t.Fatal("Freq = nil, want 1h")
	}
	if *flags.Freq != time.Hour {
		t.Errorf("Freq = %v, want 1h", *flags.Freq)
	}
	if flags.Gaps == nil {
		t.Fatal("Gaps = nil, want 0")
	}
	if *flags.Gaps != 0 {
		t.Errorf("Gaps = %d, want 0", *flags.Gaps)
	}
}

func TestAssess_OneMissingTimestampIsOneGap(t *testing.T) {
	s := regularSeries(8)
	// drop the 4th bar
	s.Bars = append(s.Bars[:3], s.Bars[4:]...)

	flags := Assess(s)

	if flags.Freq == nil || *flags.Freq != time.Hour {
		t.Fatalf("Freq = %v, want 1h", flags.Freq)
	}
	if flags.Gaps == nil {
		t.Fatal("Gaps = nil, want 1")
	}
	if *flags.Gaps != 1 {
		t.Errorf("Gaps = %d, want exactly 1", *flags.Gaps)
	}
}

func TestAssess_IrregularSeriesNotInferable(t *testing.T) {
	origin := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	s := model.Series{Symbol: "BTC-USD"}
	for _, offset := range []time.Duration{0, 7 * time.Minute, 19 * time.Minute, 65 * time.Minute} {
		s.Bars = append(s.Bars, model.Bar{
			Timestamp: origin.Add(offset),
			Close:     null.FloatFrom(1),
			Volume:    1,
		})
	}

	flags := Assess(s)

	if flags.Freq != nil {
		t.Errorf("Freq = %v, want nil for irregular spacing", *flags.Freq)
	}
	if flags.Gaps != nil {
		t.Errorf("Gaps = %v, want nil when frequency is not inferable", *flags.Gaps)
	}
}

func TestAssess_SingleRowNotInferable(t *testing.T) {
	s := regularSeries(1)
	flags := Assess(s)

	if flags.NRows != 1 {
		t.Errorf("NRows = %d, want 1", flags.NRows)
	}
	if flags.Freq != nil {
		t.Errorf("Freq = %v, want nil for a single row", *flags.Freq)
	}
}

func TestAssess_NullsAndZeroVolume(t *testing.T) {
	// 3 rows: one missing close, one zero-volume row.
	s := regularSeries(3)
	s.Bars[1].Close = null.Float{}
	s.Bars[2].Volume = 0

	flags := Assess(s)

	if flags.NRows != 3 {
		t.Errorf("NRows = %d, want 3", flags.NRows)
	}
	if flags.NNulls != 1 {
		t.Errorf("NNulls = %d, want 1", flags.NNulls)
	}
	if flags.ZeroVolumeRows != 1 {
		t.Errorf("ZeroVolumeRows = %d, want 1", flags.ZeroVolumeRows)
	}
	if flags.Empty {
		t.Error("Empty = true for a populated series")
	}
}

func TestAssess_DuplicateTimestampsCollapsed(t *testing.T) {
	s := regularSeries(5)
	s.Bars = append(s.Bars, s.Bars[2])

	flags := Assess(s)

	if flags.Freq == nil || *flags.Freq != time.Hour {
		t.Fatalf("Freq = %v, want 1h", flags.Freq)
	}
	if *flags.Gaps != 0 {
		t.Errorf("Gaps = %d, want 0 (duplicates are not gaps)", *flags.Gaps)
	}
}
