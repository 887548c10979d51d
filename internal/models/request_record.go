package models

import "time"

// RequestStatus is the lifecycle state of a request record.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusSuccess   RequestStatus = "success"
	RequestStatusError     RequestStatus = "error"
	RequestStatusThrottled RequestStatus = "throttled"
)

// RequestRecord is the audit entry for one external call. It is created in
// the pending state when the call starts and finalized exactly once when the
// call completes; it is never mutated after that.
type RequestRecord struct {
	ID          string            `json:"id"`
	ConnectorID string            `json:"connector_id"`
	Endpoint    string            `json:"endpoint"`
	Method      string            `json:"method"`
	Params      map[string]string `json:"params"`
	Headers     map[string]string `json:"headers"`
	Body        string            `json:"body"`

	StatusCode   int           `json:"status_code,omitempty"`
	ResponseData string        `json:"response_data,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Status       RequestStatus `json:"status"`

	RequestTime  time.Time  `json:"request_time"`
	ResponseTime *time.Time `json:"response_time,omitempty"`
	DurationMS   int64      `json:"duration_ms"`
}
