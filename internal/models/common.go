package models

// ErrorResponse is the error envelope used by every backend endpoint
type ErrorResponse struct {
	Message string `json:"message"`
}

// MessageResponse is returned by endpoints that only acknowledge a request
type MessageResponse struct {
	Message string `json:"message,omitempty"`
}
