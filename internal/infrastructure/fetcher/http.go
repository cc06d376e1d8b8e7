package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/hj010/Image-Process/internal/config"
	"github.com/hj010/Image-Process/internal/domain"
)

// HTTPFetcher retrieves image bytes over HTTP with a bounded timeout,
// a redirect cap and a response size cap.
type HTTPFetcher struct {
	client   *http.Client
	maxBytes int64
	strategy retry.Strategy
}

func NewHTTPFetcher(cfg *config.ProcessingConfig, strategy retry.Strategy) *HTTPFetcher {
	maxRedirects := cfg.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = 10
	}

	client := &http.Client{
		Timeout: time.Duration(cfg.FetchTimeoutSec) * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}

	if cfg.FetchRetries > 0 {
		strategy.Attempts = cfg.FetchRetries
	}

	return &HTTPFetcher{
		client:   client,
		maxBytes: int64(cfg.MaxFetchSizeMB) * 1024 * 1024,
		strategy: strategy,
	}
}

// Fetch downloads url and returns its body. Transport errors and 5xx
// responses are retried with backoff; 4xx responses fail immediately.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	attempts := f.strategy.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	delay := f.strategy.Delay

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * f.strategy.Backoff)
		}

		data, retryable, err := f.fetchOnce(ctx, url)
		if err == nil {
			return data, nil
		}
		lastErr = err

		if !retryable {
			break
		}
		zlog.Logger.Warn().
			Err(err).
			Str("url", url).
			Int("attempt", i+1).
			Int("attempts", attempts).
			Msg("image fetch failed, retrying")
	}

	return nil, lastErr
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context, url string) (data []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("%w: build request for %s: %v", domain.ErrFetchFailed, url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %s: %v", domain.ErrFetchFailed, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode >= 500, fmt.Errorf("%w: %s returned status %d", domain.ErrFetchFailed, url, resp.StatusCode)
	}

	// Read one byte past the cap to tell "exactly at the limit" from "over it".
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, true, fmt.Errorf("%w: read body of %s: %v", domain.ErrFetchFailed, url, err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, false, fmt.Errorf("%w: %s exceeds %d byte limit", domain.ErrFetchFailed, url, f.maxBytes)
	}

	return body, false, nil
}
