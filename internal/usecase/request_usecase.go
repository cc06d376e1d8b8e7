package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"

	"github.com/hj010/Image-Process/internal/domain"
	"github.com/hj010/Image-Process/internal/helpers"
)

// RequestUsecase is the synchronous ingestion surface: it persists the batch
// and enqueues the processing task, leaving all image work to the worker.
type RequestUsecase struct {
	repo  domain.RequestRepository
	queue domain.QueueService
}

func NewRequestUsecase(repo domain.RequestRepository, queue domain.QueueService) *RequestUsecase {
	return &RequestUsecase{
		repo:  repo,
		queue: queue,
	}
}

func (u *RequestUsecase) UploadCSV(ctx context.Context, filename string, reader io.Reader) (string, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		return "", fmt.Errorf("%w: expected a .csv file, got %q", domain.ErrInvalidCSV, filename)
	}

	requestID := uuid.New().String()

	products, err := parseProductCSV(reader, requestID)
	if err != nil {
		return "", err
	}

	now := time.Now()
	request := &domain.Request{
		ID:        requestID,
		Status:    domain.RequestProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.repo.CreateRequestWithProducts(ctx, request, products); err != nil {
		zlog.Logger.Error().Err(err).Str("request_id", requestID).Msg("failed to create request records")
		return "", fmt.Errorf("create request: %w", err)
	}

	// Rows are durable at this point; a lost task is recoverable by
	// re-publishing, so enqueue failure does not fail the upload.
	if err := u.queue.PublishProcessingTask(ctx, requestID); err != nil {
		zlog.Logger.Error().Err(err).Str("request_id", requestID).Msg("failed to publish processing task")
	}

	zlog.Logger.Info().
		Str("request_id", requestID).
		Str("filename", filename).
		Int("products", len(products)).
		Msg("csv batch accepted")

	return requestID, nil
}

func (u *RequestUsecase) GetStatus(ctx context.Context, requestID string) ([]*domain.StatusRow, error) {
	rows, err := u.repo.ListStatus(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrRequestNotFound
	}
	return rows, nil
}

// parseProductCSV reads rows of (serial_number, product_name, input_image_urls).
// The header row is skipped. The URL field is comma-joined, so an unquoted
// field spills into extra CSV columns; columns 3..n are folded back into the
// URL list to accept both quoted and unquoted exports.
func parseProductCSV(reader io.Reader, requestID string) ([]*domain.Product, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCSV, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: no product rows after header", domain.ErrInvalidCSV)
	}

	now := time.Now()
	products := make([]*domain.Product, 0, len(records)-1)

	for i, row := range records[1:] {
		if len(row) < 3 {
			return nil, fmt.Errorf("%w: row %d has %d columns, want at least 3", domain.ErrInvalidCSV, i+2, len(row))
		}

		urls := helpers.SplitAndTrim(strings.Join(row[2:], ","), ",")

		status := domain.ProductPending
		if len(urls) == 0 {
			status = domain.ProductNoInputs
		}

		products = append(products, &domain.Product{
			RequestID:      requestID,
			SerialNumber:   strings.TrimSpace(row[0]),
			ProductName:    strings.TrimSpace(row[1]),
			InputImageURLs: urls,
			Status:         status,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	return products, nil
}
