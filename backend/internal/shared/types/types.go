package types

// ErrorResponse is the body of every non-2xx API response.
//
//nolint:errname // ErrorResponse is an API response type, not a traditional error
type ErrorResponse struct {
	// Status code, set on the response rather than in the body
	StatusCode int `json:"-"`
	// Request ID echoed from the X-Request-ID header
	RequestID string `json:"requestID"`
	// Message safe to show to a client
	Message string `json:"message"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

// Status summarises the state of the hub.
type Status string

const (
	StatusOK Status = "OK"
	// StatusDegraded means the hub answers but an enabled dependency does not.
	StatusDegraded Status = "DEGRADED"
)

// PingResponse answers a liveness probe.
type PingResponse struct {
	Message string `json:"message"`
	Status  Status `json:"status"`
	// Short build version of the running binary
	Version string `json:"version"`
}
