package domain

import (
	"context"
	"io"
)

// IngestService is the synchronous front-door surface: persist the batch,
// enqueue the processing task, read back persisted state.
type IngestService interface {
	UploadCSV(ctx context.Context, filename string, reader io.Reader) (string, error)
	GetStatus(ctx context.Context, requestID string) ([]*StatusRow, error)
}

// ProcessorService drives one request from processing to completed.
type ProcessorService interface {
	ProcessRequest(ctx context.Context, requestID string) error
}

// ImageFetcher retrieves the raw bytes behind a single URL.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ImageTranscoder decodes arbitrary image bytes and re-encodes them as a
// smaller JPEG.
type ImageTranscoder interface {
	Transcode(data []byte) ([]byte, error)
}

// ArtifactStore persists a transcoded image under a fresh name and returns
// a stable reference to it. Store never overwrites an existing artifact.
type ArtifactStore interface {
	Store(ctx context.Context, data []byte) (string, error)
	Get(ctx context.Context, ref string) (io.ReadCloser, error)
}

// WebhookNotifier posts a completion event to the configured endpoint.
type WebhookNotifier interface {
	Notify(ctx context.Context, requestID string, status RequestStatus) error
}

type QueueService interface {
	PublishProcessingTask(ctx context.Context, requestID string) error
	Close() error
}
