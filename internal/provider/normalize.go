package provider

import (
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/guregu/null/v6"

	"github.com/acelinojr/data-pipeline-ML-portfolio/internal/model"
)

// normalize collapses a chart result into a flat, UTC-sorted series.
//
// Column selection is first-match: for each logical field the first
// indicator block carrying values for it wins. Prices that cannot be
// parsed stay null; volumes that cannot be parsed become 0.
func normalize(symbol string, res *chartResult) (model.Series, error) {
	n := len(res.Timestamp)
	if n == 0 {
		return model.Series{Symbol: symbol}, nil
	}

	open := selectColumn(res, func(q quoteBlock) []any { return q.Open })
	high := selectColumn(res, func(q quoteBlock) []any { return q.High })
	low := selectColumn(res, func(q quoteBlock) []any { return q.Low })
	cls := selectColumn(res, func(q quoteBlock) []any { return q.Close })
	vol := selectColumn(res, func(q quoteBlock) []any { return q.Volume })

	bars := make([]model.Bar, 0, n)
	for i, sec := range res.Timestamp {
		bars = append(bars, model.Bar{
			Timestamp: time.Unix(sec, 0).UTC(),
			Open:      coercePrice(at(open, i)),
			High:      coercePrice(at(high, i)),
			Low:       coercePrice(at(low, i)),
			Close:     coercePrice(at(cls, i)),
			Volume:    coerceVolume(at(vol, i)),
		})
	}

	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Timestamp.Before(bars[j].Timestamp)
	})

	return model.Series{Symbol: symbol, Bars: bars}, nil
}

// selectColumn returns the first indicator block's values for a field.
func selectColumn(res *chartResult, pick func(quoteBlock) []any) []any {
	for _, q := range res.Indicators.Quote {
		if col := pick(q); len(col) > 0 {
			return col
		}
	}
	return nil
}

func at(col []any, i int) any {
	if i < len(col) {
		return col[i]
	}
	return nil
}

// coercePrice converts a raw value to a nullable float. Unparsable
// values map to missing, never to zero.
func coercePrice(v any) null.Float {
	f, ok := toFloat(v)
	if !ok {
		return null.Float{}
	}
	return null.FloatFrom(f)
}

// coerceVolume converts a raw value to a non-negative integer volume.
// Missing, unparsable, and negative values map to 0.
func coerceVolume(v any) int64 {
	f, ok := toFloat(v)
	if !ok || f < 0 {
		return 0
	}
	return int64(f)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
