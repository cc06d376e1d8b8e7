package domain

import "errors"

var (
	ErrRequestNotFound  = errors.New("request not found")
	ErrInvalidCSV       = errors.New("invalid or malformed CSV upload")
	ErrFetchFailed      = errors.New("image fetch failed")
	ErrDecodeFailed     = errors.New("invalid image data")
	ErrNotifyFailed     = errors.New("webhook notification failed")
	ErrAlreadyCompleted = errors.New("request is already completed")
	ErrAlreadyRunning   = errors.New("request is already being processed")
	ErrStorageFailed    = errors.New("storage operation failed")
	ErrQueueFailed      = errors.New("queue operation failed")
)
