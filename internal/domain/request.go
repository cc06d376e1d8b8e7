package domain

import (
	"time"
)

type RequestStatus string

const (
	RequestProcessing RequestStatus = "processing"
	RequestCompleted  RequestStatus = "completed"
)

type ProductStatus string

const (
	ProductPending        ProductStatus = "pending"
	ProductSuccess        ProductStatus = "success"
	ProductPartialFailure ProductStatus = "partial_failure"
	ProductNoInputs       ProductStatus = "no_inputs"
)

// Request is one uploaded batch of products, tracked by a single status.
type Request struct {
	ID        string        `json:"request_id"`
	Status    RequestStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Product is one row within a request, carrying the input image URLs and
// the artifact references produced for them.
type Product struct {
	ID              int64         `json:"id"`
	RequestID       string        `json:"request_id"`
	SerialNumber    string        `json:"serial_number"`
	ProductName     string        `json:"product_name"`
	InputImageURLs  []string      `json:"input_image_urls"`
	OutputImageURLs []string      `json:"output_image_urls"`
	Status          ProductStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Title renders the status in the capitalized form used on the wire
// (status endpoint and webhook payloads): "Processing", "Completed".
func (s RequestStatus) Title() string {
	switch s {
	case RequestProcessing:
		return "Processing"
	case RequestCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

func (r *Request) IsCompleted() bool {
	return r.Status == RequestCompleted
}

func (r *Request) MarkAsCompleted() {
	r.Status = RequestCompleted
	r.UpdatedAt = time.Now()
}

// OutcomeStatus derives the product status from how many inputs there were
// and how many of them produced an artifact.
func OutcomeStatus(inputs, outputs int) ProductStatus {
	switch {
	case inputs == 0:
		return ProductNoInputs
	case outputs < inputs:
		return ProductPartialFailure
	default:
		return ProductSuccess
	}
}
