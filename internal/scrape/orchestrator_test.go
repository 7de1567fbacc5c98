package scrape

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guregu/null/v6"

	"github.com/acelinojr/data-pipeline-ML-portfolio/internal/model"
)

// fakeFetcher serves canned series per symbol.
type fakeFetcher struct {
	series map[string]model.Series
	calls  []string
}

func (f *fakeFetcher) FetchPeriod(_ context.Context, symbol, _, _ string) model.Series {
	f.calls = append(f.calls, symbol)
	return f.series[symbol]
}

func (f *fakeFetcher) FetchRange(_ context.Context, symbol string, _, _ time.Time, _ string) model.Series {
	f.calls = append(f.calls, symbol)
	return f.series[symbol]
}

// fakeWriter records upsert calls and fails selected symbols.
type fakeWriter struct {
	failSymbols map[string]bool
	scrapeIDs   []string
	rowsPerCall int64
}

func (w *fakeWriter) Upsert(_ context.Context, symbol, _ string, series model.Series, scrapeID, _ string, _ model.Granularity, _ model.QualityFlags) (int64, int) {
	w.scrapeIDs = append(w.scrapeIDs, scrapeID)
	if w.failSymbols[symbol] {
		return 0, 1
	}
	if w.rowsPerCall > 0 {
		return w.rowsPerCall, 0
	}
	return int64(len(series.Bars)), 0
}

// fakeReporter captures the delivered record, optionally failing.
type fakeReporter struct {
	rec  *RunRecord
	fail bool
}

func (r *fakeReporter) Report(_ context.Context, rec RunRecord) error {
	if r.fail {
		return errors.New("collector unreachable")
	}
	r.rec = &rec
	return nil
}

func bars(n int) []model.Bar {
	origin := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	out := make([]model.Bar, n)
	for i := range out {
		out[i] = model.Bar{
			Timestamp: origin.Add(time.Duration(i) * time.Hour),
			Close:     null.FloatFrom(100),
			Volume:    5,
		}
	}
	return out
}

func TestRun_Counters(t *testing.T) {
	fetcher := &fakeFetcher{series: map[string]model.Series{
		"BTC-USD": {Symbol: "BTC-USD", Bars: bars(4)},
		"ETH-USD": {Symbol: "ETH-USD"}, // empty
		"XRP-USD": {Symbol: "XRP-USD", Bars: bars(2)},
	}}
	writer := &fakeWriter{failSymbols: map[string]bool{"XRP-USD": true}}
	reporter := &fakeReporter{}

	o := New(Config{}, fetcher, writer, reporter, nil)
	summary, err := o.Run(t.Context(), []string{"BTC-USD", "ETH-USD", "XRP-USD"}, "7d", "1h")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Success != 1 {
		t.Errorf("Success = %d, want 1", summary.Success)
	}
	if summary.Empty != 1 {
		t.Errorf("Empty = %d, want 1 (empty is not an error)", summary.Empty)
	}
	if summary.Errors != 1 {
		t.Errorf("Errors = %d, want 1", summary.Errors)
	}
	if summary.Rows != 4 {
		t.Errorf("Rows = %d, want 4", summary.Rows)
	}
	if summary.ScrapeID == "" {
		t.Error("ScrapeID is empty")
	}
}

func TestRun_OneTokenPerRun(t *testing.T) {
	fetcher := &fakeFetcher{series: map[string]model.Series{
		"BTC-USD": {Symbol: "BTC-USD", Bars: bars(1)},
		"ETH-USD": {Symbol: "ETH-USD", Bars: bars(1)},
	}}
	writer := &fakeWriter{}

	o := New(Config{}, fetcher, writer, nil, nil)
	summary, err := o.Run(t.Context(), []string{"BTC-USD", "ETH-USD"}, "7d", "1h")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(writer.scrapeIDs) != 2 {
		t.Fatalf("upsert calls = %d, want 2", len(writer.scrapeIDs))
	}
	for _, id := range writer.scrapeIDs {
		if id != summary.ScrapeID {
			t.Errorf("row token = %q, want run token %q", id, summary.ScrapeID)
		}
	}
}

func TestRun_DeduplicatesSymbols(t *testing.T) {
	fetcher := &fakeFetcher{series: map[string]model.Series{
		"BTC-USD": {Symbol: "BTC-USD", Bars: bars(1)},
	}}
	writer := &fakeWriter{}

	o := New(Config{}, fetcher, writer, nil, nil)
	if _, err := o.Run(t.Context(), []string{"BTC-USD", " BTC-USD ", "", "BTC-USD"}, "7d", "1h"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(fetcher.calls) != 1 {
		t.Errorf("fetch calls = %v, want a single deduplicated call", fetcher.calls)
	}
}

func TestRun_InvalidInterval(t *testing.T) {
	o := New(Config{}, &fakeFetcher{}, &fakeWriter{}, nil, nil)
	if _, err := o.Run(t.Context(), []string{"BTC-USD"}, "7d", "17m"); err == nil {
		t.Fatal("Run with unsupported interval returned nil error")
	}
}

func TestRun_MetricsPayload(t *testing.T) {
	fetcher := &fakeFetcher{series: map[string]model.Series{
		"BTC-USD": {Symbol: "BTC-USD", Bars: bars(3)},
	}}
	writer := &fakeWriter{}
	reporter := &fakeReporter{}

	o := New(Config{FlowName: "yahoo_scraper"}, fetcher, writer, reporter, nil)
	base := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	ticks := []time.Time{base, base.Add(1500 * time.Millisecond)}
	o.now = func() time.Time {
		t := ticks[0]
		if len(ticks) > 1 {
			ticks = ticks[1:]
		}
		return t
	}

	if _, err := o.Run(t.Context(), []string{"BTC-USD"}, "7d", "1h"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if reporter.rec == nil {
		t.Fatal("no metrics record delivered")
	}
	rec := *reporter.rec
	if rec.FlowName != "yahoo_scraper" {
		t.Errorf("FlowName = %q, want yahoo_scraper", rec.FlowName)
	}
	if rec.Status != "success" || rec.ErrorType != "none" {
		t.Errorf("Status/ErrorType = %q/%q, want success/none", rec.Status, rec.ErrorType)
	}
	if rec.RecordsTotal != 3 {
		t.Errorf("RecordsTotal = %d, want 3", rec.RecordsTotal)
	}
	if rec.LatencyMS != 1500 {
		t.Errorf("LatencyMS = %v, want 1500", rec.LatencyMS)
	}
	if rec.Symbol != "BTC-USD" {
		t.Errorf("Symbol = %q, want BTC-USD", rec.Symbol)
	}
}

func TestRun_FailureStatusInMetrics(t *testing.T) {
	fetcher := &fakeFetcher{series: map[string]model.Series{
		"BTC-USD": {Symbol: "BTC-USD", Bars: bars(1)},
	}}
	writer := &fakeWriter{failSymbols: map[string]bool{"BTC-USD": true}}
	reporter := &fakeReporter{}

	o := New(Config{}, fetcher, writer, reporter, nil)
	if _, err := o.Run(t.Context(), []string{"BTC-USD"}, "7d", "1h"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if reporter.rec.Status != "failure" || reporter.rec.ErrorType != "scraper_error" {
		t.Errorf("Status/ErrorType = %q/%q, want failure/scraper_error",
			reporter.rec.Status, reporter.rec.ErrorType)
	}
}

func TestRun_ReporterFailureDoesNotAffectSummary(t *testing.T) {
	fetcher := &fakeFetcher{series: map[string]model.Series{
		"BTC-USD": {Symbol: "BTC-USD", Bars: bars(2)},
	}}
	writer := &fakeWriter{}
	reporter := &fakeReporter{fail: true}

	o := New(Config{}, fetcher, writer, reporter, nil)
	summary, err := o.Run(t.Context(), []string{"BTC-USD"}, "7d", "1h")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Success != 1 || summary.Errors != 0 || summary.Rows != 2 {
		t.Errorf("summary = %+v altered by metrics delivery failure", summary)
	}
}

func TestRunBackfill_Window(t *testing.T) {
	var gotStart, gotEnd time.Time
	fetcher := &fakeFetcher{series: map[string]model.Series{}}
	writer := &fakeWriter{}

	o := New(Config{}, &rangeSpy{fetcher, &gotStart, &gotEnd}, writer, nil, nil)
	end := time.Date(2024, 6, 1, 15, 45, 0, 0, time.UTC)
	summary, err := o.RunBackfill(t.Context(), []string{"BTC-USD"}, 360, end)
	if err != nil {
		t.Fatalf("RunBackfill: %v", err)
	}

	wantEnd := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	wantStart := wantEnd.AddDate(0, 0, -360)
	if !gotEnd.Equal(wantEnd) {
		t.Errorf("end = %v, want midnight UTC %v", gotEnd, wantEnd)
	}
	if !gotStart.Equal(wantStart) {
		t.Errorf("start = %v, want %v", gotStart, wantStart)
	}
	if summary.Empty != 1 {
		t.Errorf("Empty = %d, want 1 for a symbol with no data", summary.Empty)
	}
}

// rangeSpy records the window passed to FetchRange.
type rangeSpy struct {
	inner *fakeFetcher
	start *time.Time
	end   *time.Time
}

func (r *rangeSpy) FetchPeriod(ctx context.Context, symbol, period, interval string) model.Series {
	return r.inner.FetchPeriod(ctx, symbol, period, interval)
}

func (r *rangeSpy) FetchRange(ctx context.Context, symbol string, start, end time.Time, interval string) model.Series {
	*r.start = start
	*r.end = end
	return r.inner.FetchRange(ctx, symbol, start, end, interval)
}
