package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RunRecord is the structured run summary posted to the metrics
// collector's ingest endpoint.
type RunRecord struct {
	FlowName     string  `json:"flow_name"`
	Symbol       string  `json:"symbol"`
	RecordsTotal int64   `json:"records_total"`
	Errors       int     `json:"errors"`
	LatencyMS    float64 `json:"latency_ms"`
	Status       string  `json:"status"`
	ErrorType    string  `json:"error_type"`
	Region       string  `json:"region"`
}

// HTTPReporter posts run records to the collector over HTTP.
type HTTPReporter struct {
	url        string
	httpClient *http.Client
}

// NewHTTPReporter creates a reporter for the given ingest URL.
func NewHTTPReporter(url string) *HTTPReporter {
	return &HTTPReporter{
		url: url,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Report delivers one run record. A non-2xx response is an error.
func (r *HTTPReporter) Report(ctx context.Context, rec RunRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal run record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post run record: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("collector responded %d", resp.StatusCode)
	}
	return nil
}
