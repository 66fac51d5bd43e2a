package errors

// ErrorResponse is the body of every failed API call. RequestID echoes the
// X-Request-ID of the call so support can find it in the logs.
type ErrorResponse struct {
	Success   bool        `json:"success"`
	Error     ErrorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

// ErrorDetail carries the first hint of the error as Message and its code
// (see CodeFromErr) as InternalError.
type ErrorDetail struct {
	Message       string         `json:"message"`
	InternalError string         `json:"internal_error,omitempty"`
	Status        int            `json:"status"`
	Details       map[string]any `json:"details,omitempty"`
}
