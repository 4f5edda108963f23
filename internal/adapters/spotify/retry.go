package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultMaxRetries = 3
	defaultBackoff    = 500 * time.Millisecond
)

// statusError carries a non-retryable HTTP status back to the caller.
type statusError struct {
	Path   string
	Status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("spotify adapter: %s returned status %d", e.Path, e.Status)
}

// getJSON issues a GET against the API and decodes the body into out.
// 429 and 5xx responses are retried with exponential backoff, honouring Retry-After.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	resp, err := c.doWithRetry(ctx, endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &statusError{Path: path, Status: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("spotify adapter: decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) doWithRetry(ctx context.Context, endpoint string) (*http.Response, error) {
	maxRetries := c.maxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	backoff := c.baseBackoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("spotify adapter: build request: %w", err)
		}

		// #nosec G107 -- endpoint is built from the configured API base URL
		resp, err := c.httpClient.Do(req)
		wait, retry := shouldRetry(resp, err)
		if !retry {
			return resp, err
		}

		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("spotify adapter: request canceled: %w", ctx.Err())
			}
			lastErr = err
			log.Printf("WARN spotify adapter: attempt %d/%d failed: %v", attempt, maxRetries, err)
		} else {
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			log.Printf("WARN spotify adapter: attempt %d/%d got status %d", attempt, maxRetries, resp.StatusCode)
			_ = resp.Body.Close()
		}

		if attempt == maxRetries {
			break
		}
		if wait <= 0 {
			wait = backoff << (attempt - 1)
		}
		if err := sleepWithContext(ctx, wait); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("spotify adapter: request failed after %d attempts: %w", maxRetries, lastErr)
}

func shouldRetry(resp *http.Response, err error) (time.Duration, bool) {
	if err != nil {
		return 0, true
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return parseRetryAfter(resp.Header.Get("Retry-After")), true
	}
	return 0, false
}

// parseRetryAfter accepts both delta-seconds and HTTP-date forms.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if when, err := http.ParseTime(v); err == nil {
		if until := time.Until(when); until > 0 {
			return until
		}
	}
	return 0
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("spotify adapter: request canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
