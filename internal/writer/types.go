package writer

import (
	"time"

	"github.com/guregu/null/v6"
)

// WriterConfig holds upsert settings.
type WriterConfig struct {
	Table     string // warehouse table name
	BatchSize int    // rows per batch inside the transaction
}

// DefaultWriterConfig returns sensible defaults.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		Table:     "market_bars",
		BatchSize: 500,
	}
}

// barRow is one persisted observation, keyed by (symbol, timestamp).
type barRow struct {
	Symbol        string
	Name          string
	Price         null.Float
	ChangePercent null.Float // always null here; computed downstream
	Volume        int64
	Timestamp     time.Time // bucketed UTC
	Source        string
	ScrapeID      string
	IsValid       bool
	QualityFlags  []byte
	CreatedAt     time.Time
}
