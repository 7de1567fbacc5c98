package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/acelinojr/data-pipeline-ML-portfolio/internal/model"
)

// ProviderError represents an HTTP-level error from the quote provider.
type ProviderError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable returns true if the error should trigger a retry.
func (e *ProviderError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// errEmptyPayload marks an empty-but-well-formed response; retried like
// a transient failure.
var errEmptyPayload = errors.New("empty payload")

// FetchPeriod fetches a lookback window of bars for symbol, e.g.
// period "7d" at interval "1h". Exhausted retries yield an empty series.
func (c *Client) FetchPeriod(ctx context.Context, symbol, period, interval string) model.Series {
	q := url.Values{}
	q.Set("range", period)
	q.Set("interval", interval)
	return c.fetchWithRetry(ctx, symbol, q)
}

// FetchRange fetches bars for symbol between start (inclusive) and end
// (inclusive) at the given interval. The provider treats the upper bound
// as exclusive, so one interval is added to end before the call.
func (c *Client) FetchRange(ctx context.Context, symbol string, start, end time.Time, interval string) model.Series {
	endExcl := end.AddDate(0, 0, 1)
	if g, err := model.ParseGranularity(interval); err == nil && g == model.GranularityHour {
		endExcl = end.Add(time.Hour)
	}

	q := url.Values{}
	q.Set("period1", fmt.Sprintf("%d", start.Unix()))
	q.Set("period2", fmt.Sprintf("%d", endExcl.Unix()))
	q.Set("interval", interval)
	return c.fetchWithRetry(ctx, symbol, q)
}

// fetchWithRetry runs the attempt loop: rate-limit wait, fetch, then
// exponential backoff (2s, 4s, ... capped at 60s) on failure. Any kind
// of failure after the retry budget degrades to an empty series.
func (c *Client) fetchWithRetry(ctx context.Context, symbol string, query url.Values) model.Series {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.initialBackoff
	bo.Multiplier = 2
	bo.MaxInterval = c.maxBackoff
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0

	attempt := 0
	var series model.Series

	op := func() error {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		c.logger.Debug("fetching series",
			"symbol", symbol,
			"query", query.Encode(),
			"attempt", attempt,
		)

		s, err := c.fetchOnce(ctx, symbol, query)
		if err != nil {
			var pErr *ProviderError
			if errors.As(err, &pErr) && !pErr.IsRetryable() {
				return backoff.Permanent(err)
			}
			return err
		}
		if s.Empty() {
			c.logger.Warn("empty result", "symbol", symbol, "attempt", attempt)
			return errEmptyPayload
		}

		series = s
		return nil
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(c.maxRetries)), ctx))
	if err != nil {
		c.logger.Error("giving up fetch",
			"symbol", symbol,
			"attempts", attempt,
			"error", err,
		)
		return model.Series{Symbol: symbol}
	}

	return series
}

// fetchOnce performs a single request and normalizes the response.
func (c *Client) fetchOnce(ctx context.Context, symbol string, query url.Values) (model.Series, error) {
	fullURL := c.baseURL + "/v8/finance/chart/" + url.PathEscape(symbol) + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return model.Series{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Series{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Series{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return model.Series{}, &ProviderError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}

	var cr chartResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return model.Series{}, fmt.Errorf("unmarshal response: %w", err)
	}
	if cr.Chart.Error != nil {
		return model.Series{}, fmt.Errorf("chart error: %s: %s", cr.Chart.Error.Code, cr.Chart.Error.Description)
	}
	if len(cr.Chart.Result) == 0 {
		return model.Series{Symbol: symbol}, nil
	}

	return normalize(symbol, &cr.Chart.Result[0])
}
