// Package dto defines request and response payloads for the HTTP API
package dto

// APIResponse represents the standard API response envelope.
// Every endpoint returns either {"status":"success","data":...} or
// {"status":"error","message":...}.
type APIResponse struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty" validate:"omitempty"`
	Message string `json:"message,omitempty" validate:"omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// NewSuccessResponse wraps data in the success envelope
func NewSuccessResponse(data any) APIResponse {
	return APIResponse{
		Status: StatusSuccess,
		Data:   data,
	}
}

// NewErrorResponse wraps a message in the error envelope
func NewErrorResponse(message string) APIResponse {
	return APIResponse{
		Status:  StatusError,
		Message: message,
	}
}

// ListMeta carries pagination info alongside list payloads
type ListMeta struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// ListResponse is the generic paginated list payload
type ListResponse struct {
	Items any      `json:"items"`
	Meta  ListMeta `json:"meta"`
}
