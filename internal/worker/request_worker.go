package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/wb-go/wbf/zlog"

	"github.com/hj010/Image-Process/internal/domain"
	"github.com/hj010/Image-Process/internal/dto"
)

// RequestWorker handles queued processing tasks. It enforces the
// at-most-one-concurrent-run-per-request discipline: a second task for a
// request that is already in flight is rejected instead of queued, since a
// re-run would recompute and overwrite its outputs.
type RequestWorker struct {
	processorService domain.ProcessorService

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewRequestWorker(processorService domain.ProcessorService) *RequestWorker {
	return &RequestWorker{
		processorService: processorService,
		inFlight:         make(map[string]struct{}),
	}
}

func (w *RequestWorker) HandleProcessingTask(ctx context.Context, task *dto.ProcessRequestTask) error {
	if task.RequestID == "" {
		zlog.Logger.Error().Msg("invalid task: empty request id")
		return fmt.Errorf("invalid task: empty request id")
	}

	if !w.acquire(task.RequestID) {
		zlog.Logger.Warn().
			Str("request_id", task.RequestID).
			Msg("request already in flight, rejecting duplicate task")
		return fmt.Errorf("request %s: %w", task.RequestID, domain.ErrAlreadyRunning)
	}
	defer w.release(task.RequestID)

	zlog.Logger.Info().
		Str("request_id", task.RequestID).
		Msg("starting request processing task")

	if err := w.processorService.ProcessRequest(ctx, task.RequestID); err != nil {
		zlog.Logger.Error().
			Err(err).
			Str("request_id", task.RequestID).
			Msg("failed to process request")
		return fmt.Errorf("process request %s: %w", task.RequestID, err)
	}

	zlog.Logger.Info().
		Str("request_id", task.RequestID).
		Msg("request processed successfully")

	return nil
}

func (w *RequestWorker) acquire(requestID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, busy := w.inFlight[requestID]; busy {
		return false
	}
	w.inFlight[requestID] = struct{}{}
	return true
}

func (w *RequestWorker) release(requestID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inFlight, requestID)
}
