package worker

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/wb-go/wbf/zlog"

	"github.com/hj010/Image-Process/internal/domain"
	"github.com/hj010/Image-Process/internal/dto"
)

func TestMain(m *testing.M) {
	zlog.Init()
	os.Exit(m.Run())
}

type mockProcessor struct {
	mu    sync.Mutex
	calls int
	fn    func(requestID string) error
}

func (m *mockProcessor) ProcessRequest(ctx context.Context, requestID string) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.fn != nil {
		return m.fn(requestID)
	}
	return nil
}

func (m *mockProcessor) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestHandleProcessingTask_Success(t *testing.T) {
	proc := &mockProcessor{}
	w := NewRequestWorker(proc)

	err := w.HandleProcessingTask(context.Background(), &dto.ProcessRequestTask{RequestID: "req-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proc.callCount() != 1 {
		t.Errorf("expected 1 call, got %d", proc.callCount())
	}
}

func TestHandleProcessingTask_EmptyRequestID(t *testing.T) {
	proc := &mockProcessor{}
	w := NewRequestWorker(proc)

	if err := w.HandleProcessingTask(context.Background(), &dto.ProcessRequestTask{}); err == nil {
		t.Fatal("expected error for empty request id")
	}
	if proc.callCount() != 0 {
		t.Errorf("processor must not run for an invalid task, got %d calls", proc.callCount())
	}
}

func TestHandleProcessingTask_DuplicateInFlightRejected(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	proc := &mockProcessor{fn: func(string) error {
		close(started)
		<-release
		return nil
	}}
	w := NewRequestWorker(proc)

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- w.HandleProcessingTask(context.Background(), &dto.ProcessRequestTask{RequestID: "req-1"})
	}()
	<-started

	err := w.HandleProcessingTask(context.Background(), &dto.ProcessRequestTask{RequestID: "req-1"})
	if !errors.Is(err, domain.ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}

	close(release)
	if err := <-firstDone; err != nil {
		t.Fatalf("first task failed: %v", err)
	}
	if proc.callCount() != 1 {
		t.Errorf("duplicate must not reach the processor, got %d calls", proc.callCount())
	}
}

func TestHandleProcessingTask_DifferentRequestsRunConcurrently(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	proc := &mockProcessor{fn: func(id string) error {
		if id == "req-1" {
			close(started)
			<-release
		}
		return nil
	}}
	w := NewRequestWorker(proc)

	go w.HandleProcessingTask(context.Background(), &dto.ProcessRequestTask{RequestID: "req-1"})
	<-started

	if err := w.HandleProcessingTask(context.Background(), &dto.ProcessRequestTask{RequestID: "req-2"}); err != nil {
		t.Fatalf("unrelated request blocked: %v", err)
	}
	close(release)
}

func TestHandleProcessingTask_SlotFreedAfterCompletion(t *testing.T) {
	proc := &mockProcessor{}
	w := NewRequestWorker(proc)

	task := &dto.ProcessRequestTask{RequestID: "req-1"}
	if err := w.HandleProcessingTask(context.Background(), task); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := w.HandleProcessingTask(context.Background(), task); err != nil {
		t.Fatalf("second run after completion must be accepted: %v", err)
	}
	if proc.callCount() != 2 {
		t.Errorf("expected 2 calls, got %d", proc.callCount())
	}
}

func TestHandleProcessingTask_SlotFreedAfterFailure(t *testing.T) {
	boom := errors.New("boom")
	proc := &mockProcessor{fn: func(string) error { return boom }}
	w := NewRequestWorker(proc)

	task := &dto.ProcessRequestTask{RequestID: "req-1"}
	if err := w.HandleProcessingTask(context.Background(), task); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped processing error, got %v", err)
	}
	// The slot must be released even when processing fails.
	proc.fn = nil
	if err := w.HandleProcessingTask(context.Background(), task); err != nil {
		t.Fatalf("retry after failure must be accepted: %v", err)
	}
}
