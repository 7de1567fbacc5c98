package writer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/acelinojr/data-pipeline-ML-portfolio/internal/bucket"
	"github.com/acelinojr/data-pipeline-ML-portfolio/internal/model"
)

// DB starts the transaction an upsert call runs in. *pgxpool.Pool
// satisfies it.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Writer upserts normalized bars into the warehouse table.
type Writer struct {
	cfg    WriterConfig
	db     DB
	logger *slog.Logger

	now func() time.Time
}

// New creates a Writer.
func New(cfg WriterConfig, db DB, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = DefaultWriterConfig().BatchSize
	}
	if cfg.Table == "" {
		cfg.Table = DefaultWriterConfig().Table
	}
	return &Writer{
		cfg:    cfg,
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// Upsert writes every bar of the series with the given run token,
// bucketing timestamps to the target granularity. All batches run in
// one transaction: on any failure the whole call is rolled back and the
// result is (0, 1). A bar that cannot be converted to a row is skipped
// and logged; it never aborts the batch.
func (w *Writer) Upsert(ctx context.Context, symbol, name string, series model.Series, scrapeID, source string, g model.Granularity, flags model.QualityFlags) (int64, int) {
	if series.Empty() {
		return 0, 0
	}

	rows := w.buildRows(symbol, name, series, scrapeID, source, g, flags)
	if len(rows) == 0 {
		return 0, 0
	}

	affected, err := w.upsertRows(ctx, rows)
	if err != nil {
		w.logger.Error("upsert transaction rolled back",
			"symbol", symbol,
			"rows", len(rows),
			"error", err,
		)
		return 0, 1
	}

	return affected, 0
}

// buildRows converts bars to warehouse rows. Row-level failures are
// skipped individually.
func (w *Writer) buildRows(symbol, name string, series model.Series, scrapeID, source string, g model.Granularity, flags model.QualityFlags) []barRow {
	qualityJSON, err := json.Marshal(flags)
	if err != nil {
		// Flags are a plain struct; this only trips on future shape changes.
		w.logger.Warn("marshal quality flags", "symbol", symbol, "error", err)
		qualityJSON = []byte("{}")
	}

	now := w.now().UTC()
	rows := make([]barRow, 0, len(series.Bars))
	for _, b := range series.Bars {
		if b.Timestamp.IsZero() {
			w.logger.Warn("skipping bar with unusable timestamp", "symbol", symbol)
			continue
		}

		volume := b.Volume
		if volume < 0 {
			volume = 0
		}

		rows = append(rows, barRow{
			Symbol:       symbol,
			Name:         name,
			Price:        b.Close,
			Volume:       volume,
			Timestamp:    bucket.Truncate(b.Timestamp, g),
			Source:       source,
			ScrapeID:     scrapeID,
			IsValid:      true,
			QualityFlags: qualityJSON,
			CreatedAt:    now,
		})
	}
	return rows
}

// upsertRows sends the rows in fixed-size batches inside one explicit
// transaction, committing only after every batch succeeded.
func (w *Writer) upsertRows(ctx context.Context, rows []barRow) (int64, error) {
	tx, err := w.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // no-op once committed

	sql := upsertSQL(w.cfg.Table)

	var affected int64
	for start := 0; start < len(rows); start += w.cfg.BatchSize {
		end := min(start+w.cfg.BatchSize, len(rows))

		batch := &pgx.Batch{}
		for _, r := range rows[start:end] {
			batch.Queue(sql,
				r.Symbol, r.Name, r.Price.Ptr(), r.ChangePercent.Ptr(), r.Volume,
				r.Timestamp, r.Source, r.ScrapeID, r.IsValid, r.QualityFlags, r.CreatedAt,
			)
		}

		results := tx.SendBatch(ctx, batch)
		batchAffected, err := drainBatch(results, end-start)
		if cerr := results.Close(); err == nil && cerr != nil {
			err = cerr
		}
		if err != nil {
			return 0, fmt.Errorf("batch upsert rows %d..%d: %w", start, end, err)
		}
		affected += batchAffected
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return affected, nil
}

// upsertSQL builds the insert statement for the target table. Rows are
// keyed by (symbol, timestamp). A conflict overwrites the ingested
// columns but never change_percent: a downstream job owns that column,
// and re-ingesting a window must not null it out.
func upsertSQL(table string) string {
	return fmt.Sprintf(`
		INSERT INTO %s
			(symbol, name, price, change_percent, volume, timestamp,
			 source, scrape_id, is_valid, quality_flags, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (symbol, timestamp) DO UPDATE SET
			price          = EXCLUDED.price,
			volume         = EXCLUDED.volume,
			source         = EXCLUDED.source,
			scrape_id      = EXCLUDED.scrape_id,
			is_valid       = EXCLUDED.is_valid,
			quality_flags  = EXCLUDED.quality_flags,
			created_at     = EXCLUDED.created_at
	`, table)
}

func drainBatch(results pgx.BatchResults, n int) (int64, error) {
	var affected int64
	for i := 0; i < n; i++ {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		affected += ct.RowsAffected()
	}
	return affected, nil
}
