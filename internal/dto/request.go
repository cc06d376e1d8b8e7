package dto

// ProcessRequestTask is the Kafka message handed from the API to the worker.
type ProcessRequestTask struct {
	RequestID string `json:"request_id"`
}

// WebhookNotification is the inbound payload accepted by POST /notify.
type WebhookNotification struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}
