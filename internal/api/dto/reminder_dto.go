package dto

import "github.com/spec-kit/compliance-service/internal/service"

// SendRemindersRequest tunes one reminder run. Days overrides the configured
// thresholds as a comma separated list; send_to_all fires for every record
// inside the expiring window instead of exact threshold days only.
type SendRemindersRequest struct {
	Days      string `json:"days"`
	SendToAll bool   `json:"send_to_all"`
}

// BatchResultResponse wraps a reminder batch outcome.
type BatchResultResponse struct {
	Result *service.BatchResult `json:"result"`
}
