package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/hj010/Image-Process/internal/config"
	"github.com/hj010/Image-Process/internal/domain"
)

type completionEvent struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}

// HTTPNotifier posts completion events to the configured webhook endpoint.
// Delivery is at-most-once: callers log failures and move on.
type HTTPNotifier struct {
	url      string
	client   *http.Client
	strategy retry.Strategy
}

func NewHTTPNotifier(cfg *config.WebhookConfig, strategy retry.Strategy) *HTTPNotifier {
	if cfg.Retries > 0 {
		strategy.Attempts = cfg.Retries
	}
	return &HTTPNotifier{
		url: cfg.URL,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
		},
		strategy: strategy,
	}
}

func (n *HTTPNotifier) Notify(ctx context.Context, requestID string, status domain.RequestStatus) error {
	payload, err := json.Marshal(completionEvent{
		RequestID: requestID,
		Status:    status.Title(),
	})
	if err != nil {
		return fmt.Errorf("%w: marshal payload: %v", domain.ErrNotifyFailed, err)
	}

	attempts := n.strategy.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	delay := n.strategy.Delay

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * n.strategy.Backoff)
		}

		if lastErr = n.post(ctx, payload); lastErr == nil {
			zlog.Logger.Info().
				Str("request_id", requestID).
				Str("status", string(status)).
				Msg("webhook notification sent")
			return nil
		}

		zlog.Logger.Warn().
			Err(lastErr).
			Str("request_id", requestID).
			Int("attempt", i+1).
			Int("attempts", attempts).
			Msg("webhook delivery failed")
	}

	return lastErr
}

func (n *HTTPNotifier) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", domain.ErrNotifyFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNotifyFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: endpoint returned status %d", domain.ErrNotifyFailed, resp.StatusCode)
	}

	return nil
}
