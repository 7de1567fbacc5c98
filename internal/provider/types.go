package provider

import "github.com/acelinojr/data-pipeline-ML-portfolio/internal/version"

// userAgent identifies the pipeline to the provider.
var userAgent = "data-pipeline/" + version.Version

// chartResponse is the provider's chart envelope.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

// chartError is the provider's structured error payload.
type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// chartResult is one symbol's tabular series. Timestamps are unix
// seconds; indicator blocks are nested column groups, possibly more
// than one per logical field.
type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []quoteBlock `json:"quote"`
	} `json:"indicators"`
}

// quoteBlock holds parallel columns for one indicator group. Values are
// left untyped: the provider mixes numbers, strings, and nulls, and the
// normalizer owns the coercion rules.
type quoteBlock struct {
	Open   []any `json:"open"`
	High   []any `json:"high"`
	Low    []any `json:"low"`
	Close  []any `json:"close"`
	Volume []any `json:"volume"`
}

