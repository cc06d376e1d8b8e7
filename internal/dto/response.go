package dto

import (
	"strings"

	"github.com/hj010/Image-Process/internal/domain"
)

type UploadResponse struct {
	RequestID string `json:"request_id"`
}

// ProductStatusResponse mirrors one row of the status report. URL lists are
// rendered back to their comma-joined storage form.
type ProductStatusResponse struct {
	SerialNumber    string `json:"serial_number"`
	ProductName     string `json:"product_name"`
	InputImageURLs  string `json:"input_image_urls"`
	OutputImageURLs string `json:"output_image_urls"`
	Status          string `json:"status"`
}

type StatusResponse struct {
	Status []*ProductStatusResponse `json:"status"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func MapStatusRows(rows []*domain.StatusRow) *StatusResponse {
	out := make([]*ProductStatusResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, &ProductStatusResponse{
			SerialNumber:    row.SerialNumber,
			ProductName:     row.ProductName,
			InputImageURLs:  strings.Join(row.InputImageURLs, ","),
			OutputImageURLs: strings.Join(row.OutputImageURLs, ","),
			Status:          row.RequestStatus.Title(),
		})
	}
	return &StatusResponse{Status: out}
}
