package scrape

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/acelinojr/data-pipeline-ML-portfolio/internal/model"
	"github.com/acelinojr/data-pipeline-ML-portfolio/internal/quality"
)

// Fetcher provides normalized series from the quote provider.
type Fetcher interface {
	FetchPeriod(ctx context.Context, symbol, period, interval string) model.Series
	FetchRange(ctx context.Context, symbol string, start, end time.Time, interval string) model.Series
}

// Upserter persists one symbol's series under a run token.
type Upserter interface {
	Upsert(ctx context.Context, symbol, name string, series model.Series, scrapeID, source string, g model.Granularity, flags model.QualityFlags) (int64, int)
}

// Reporter delivers a finished run's statistics to the metrics sink.
type Reporter interface {
	Report(ctx context.Context, rec RunRecord) error
}

// Config holds orchestrator settings.
type Config struct {
	Source   string // source label written on every row
	FlowName string // flow label on emitted metrics
}

// Orchestrator runs the fetch → assess → upsert pipeline over a symbol list.
type Orchestrator struct {
	cfg      Config
	fetcher  Fetcher
	writer   Upserter
	reporter Reporter
	logger   *slog.Logger

	now func() time.Time
}

// New creates an Orchestrator. reporter may be nil when no metrics sink
// is configured.
func New(cfg Config, fetcher Fetcher, writer Upserter, reporter Reporter, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Source == "" {
		cfg.Source = "yahoo_finance"
	}
	if cfg.FlowName == "" {
		cfg.FlowName = "yahoo_scraper"
	}
	return &Orchestrator{
		cfg:      cfg,
		fetcher:  fetcher,
		writer:   writer,
		reporter: reporter,
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes one scrape over a lookback period, e.g. period "7d" at
// interval "1h". It always returns a summary, even when every symbol fails.
func (o *Orchestrator) Run(ctx context.Context, symbols []string, period, interval string) (model.RunSummary, error) {
	g, err := model.ParseGranularity(interval)
	if err != nil {
		return model.RunSummary{}, err
	}

	fetch := func(ctx context.Context, symbol string) model.Series {
		return o.fetcher.FetchPeriod(ctx, symbol, period, interval)
	}
	return o.run(ctx, symbols, fetch, g), nil
}

// RunBackfill executes a one-shot daily backfill covering `days` up to
// end (inclusive).
func (o *Orchestrator) RunBackfill(ctx context.Context, symbols []string, days int, end time.Time) (model.RunSummary, error) {
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	startDay := endDay.AddDate(0, 0, -days)

	fetch := func(ctx context.Context, symbol string) model.Series {
		return o.fetcher.FetchRange(ctx, symbol, startDay, endDay, "1d")
	}
	return o.run(ctx, symbols, fetch, model.GranularityDay), nil
}

// run is the shared core: one scrape id, symbols strictly in sequence,
// counters accumulated, summary delivered to the metrics sink at the end.
func (o *Orchestrator) run(ctx context.Context, symbols []string, fetch func(context.Context, string) model.Series, g model.Granularity) model.RunSummary {
	start := o.now()
	summary := model.RunSummary{ScrapeID: model.NewScrapeID()}
	symbols = distinct(symbols)

	o.logger.Info("starting run",
		"scrape_id", summary.ScrapeID,
		"symbols", len(symbols),
		"granularity", g.String(),
	)

	for _, symbol := range symbols {
		series := fetch(ctx, symbol)
		flags := quality.Assess(series)

		if series.Empty() {
			o.logger.Warn("symbol returned empty series",
				"scrape_id", summary.ScrapeID,
				"symbol", symbol,
				"flags", flags,
			)
			summary.Empty++
			continue
		}

		rows, errs := o.writer.Upsert(ctx, symbol, symbol, series, summary.ScrapeID, o.cfg.Source, g, flags)
		summary.Rows += rows
		if errs == 0 {
			summary.Success++
		} else {
			summary.Errors++
		}

		o.logger.Info("symbol processed",
			"scrape_id", summary.ScrapeID,
			"symbol", symbol,
			"rows", rows,
			"write_errors", errs,
			"flags", flags,
		)
	}

	summary.Elapsed = o.now().Sub(start)
	o.report(ctx, symbols, summary)

	o.logger.Info("run finished",
		"scrape_id", summary.ScrapeID,
		"success", summary.Success,
		"empty", summary.Empty,
		"errors", summary.Errors,
		"rows", summary.Rows,
		"elapsed", summary.Elapsed,
	)
	return summary
}

// report hands the run record to the metrics sink. Failures are logged
// and swallowed: delivery never alters the run's own result.
func (o *Orchestrator) report(ctx context.Context, symbols []string, summary model.RunSummary) {
	if o.reporter == nil {
		return
	}

	rec := RunRecord{
		FlowName:     o.cfg.FlowName,
		Symbol:       strings.Join(symbols, ","),
		RecordsTotal: summary.Rows,
		Errors:       summary.Errors,
		LatencyMS:    float64(summary.Elapsed) / float64(time.Millisecond),
		Status:       "success",
		ErrorType:    "none",
		Region:       "scraper",
	}
	if summary.Errors > 0 {
		rec.Status = "failure"
		rec.ErrorType = "scraper_error"
	}

	if err := o.reporter.Report(ctx, rec); err != nil {
		o.logger.Error("failed to deliver run metrics",
			"scrape_id", summary.ScrapeID,
			"error", err,
		)
	}
}

// distinct deduplicates symbols preserving first-seen order.
func distinct(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
