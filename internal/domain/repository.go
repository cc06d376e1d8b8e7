package domain

import "context"

// StatusRow is one joined product+request row served by the status endpoint.
type StatusRow struct {
	SerialNumber    string
	ProductName     string
	InputImageURLs  []string
	OutputImageURLs []string
	RequestStatus   RequestStatus
}

type RequestRepository interface {
	CreateRequestWithProducts(ctx context.Context, request *Request, products []*Product) error
	GetRequest(ctx context.Context, id string) (*Request, error)
	ListProducts(ctx context.Context, requestID string) ([]*Product, error)
	UpdateProductOutputs(ctx context.Context, productID int64, outputs []string, status ProductStatus) error
	SetRequestStatus(ctx context.Context, requestID string, status RequestStatus) error
	ListStatus(ctx context.Context, requestID string) ([]*StatusRow, error)
}
