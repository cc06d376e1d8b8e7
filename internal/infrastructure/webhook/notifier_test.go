package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/hj010/Image-Process/internal/config"
	"github.com/hj010/Image-Process/internal/domain"
)

func TestMain(m *testing.M) {
	zlog.Init()
	os.Exit(m.Run())
}

func testStrategy(attempts int) retry.Strategy {
	return retry.Strategy{Attempts: attempts, Delay: time.Millisecond, Backoff: 1.0}
}

func TestNotify_SendsCompletionPayload(t *testing.T) {
	var gotBody []byte
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotContentType = r.Header.Get("Content-Type")
	}))
	defer srv.Close()

	n := NewHTTPNotifier(&config.WebhookConfig{URL: srv.URL, TimeoutSec: 5}, testStrategy(1))

	if err := n.Notify(context.Background(), "req-42", domain.RequestCompleted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotContentType != "application/json" {
		t.Errorf("content type = %q", gotContentType)
	}

	var payload struct {
		RequestID string `json:"request_id"`
		Status    string `json:"status"`
	}
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.RequestID != "req-42" {
		t.Errorf("request_id = %q", payload.RequestID)
	}
	if payload.Status != "Completed" {
		t.Errorf("status = %q, want Completed", payload.Status)
	}
}

func TestNotify_EndpointErrorIsRetriedThenSurfaced(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewHTTPNotifier(&config.WebhookConfig{URL: srv.URL, TimeoutSec: 5}, testStrategy(3))

	err := n.Notify(context.Background(), "req-1", domain.RequestCompleted)
	if !errors.Is(err, domain.ErrNotifyFailed) {
		t.Fatalf("expected ErrNotifyFailed, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestNotify_RecoversOnRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	n := NewHTTPNotifier(&config.WebhookConfig{URL: srv.URL, TimeoutSec: 5}, testStrategy(3))

	if err := n.Notify(context.Background(), "req-1", domain.RequestCompleted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
}

func TestNotify_UnreachableEndpoint(t *testing.T) {
	n := NewHTTPNotifier(&config.WebhookConfig{URL: "http://127.0.0.1:1", TimeoutSec: 1}, testStrategy(1))

	err := n.Notify(context.Background(), "req-1", domain.RequestCompleted)
	if !errors.Is(err, domain.ErrNotifyFailed) {
		t.Fatalf("expected ErrNotifyFailed, got %v", err)
	}
}

func TestNewHTTPNotifier_ConfigRetriesOverrideStrategy(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewHTTPNotifier(&config.WebhookConfig{URL: srv.URL, TimeoutSec: 5, Retries: 2}, testStrategy(5))

	_ = n.Notify(context.Background(), "req-1", domain.RequestCompleted)
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected 2 attempts from config override, got %d", got)
	}
}
