package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/hj010/Image-Process/internal/domain"
	"github.com/hj010/Image-Process/internal/dto"
)

type RequestHandler struct {
	service       domain.IngestService
	maxUploadSize int64
}

func NewRequestHandler(service domain.IngestService, maxUploadSizeMB int) *RequestHandler {
	return &RequestHandler{
		service:       service,
		maxUploadSize: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

func (h *RequestHandler) RegisterRoutes(engine *ginext.Engine) {
	engine.POST("/upload", h.UploadCSV)
	engine.GET("/status/:request_id", h.GetStatus)
	engine.POST("/notify", h.ReceiveNotification)
}

// UploadCSV POST /upload
func (h *RequestHandler) UploadCSV(c *ginext.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to get file from request")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "no file part in the request",
		})
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadSize {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: fmt.Sprintf("file size exceeds maximum allowed (%d MB)", h.maxUploadSize/(1024*1024)),
		})
		return
	}

	requestID, err := h.service.UploadCSV(c.Request.Context(), header.Filename, file)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCSV) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "invalid file format, please upload a CSV file",
			})
			return
		}
		zlog.Logger.Error().Err(err).Str("filename", header.Filename).Msg("failed to accept upload")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "failed to accept upload",
		})
		return
	}

	c.JSON(http.StatusOK, dto.UploadResponse{RequestID: requestID})
}

// GetStatus GET /status/:request_id
func (h *RequestHandler) GetStatus(c *ginext.Context) {
	requestID := c.Param("request_id")
	if requestID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "request ID is required",
		})
		return
	}

	rows, err := h.service.GetStatus(c.Request.Context(), requestID)
	if err != nil {
		if errors.Is(err, domain.ErrRequestNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{
				Error: "invalid request ID",
			})
			return
		}
		zlog.Logger.Error().Err(err).Str("request_id", requestID).Msg("failed to read status")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "failed to retrieve status",
		})
		return
	}

	c.JSON(http.StatusOK, dto.MapStatusRows(rows))
}

// ReceiveNotification POST /notify
//
// Passive inbound listener: peers can point their webhook at this service.
// The event is logged, nothing else happens.
func (h *RequestHandler) ReceiveNotification(c *ginext.Context) {
	var payload dto.WebhookNotification
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "invalid notification payload",
		})
		return
	}

	zlog.Logger.Info().
		Str("request_id", payload.RequestID).
		Str("status", payload.Status).
		Msg("webhook notification received")

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: "notification received successfully",
	})
}
