package connectors

import "fmt"

// ErrorKind classifies a connector failure.
type ErrorKind string

const (
	// ErrValidation means the input was malformed and no network call was made.
	ErrValidation ErrorKind = "validation"
	// ErrRateLimited means the remote returned 429 or the connector was
	// already flagged as rate limited.
	ErrRateLimited ErrorKind = "rate_limited"
	// ErrNetwork means the call timed out or the connection failed.
	ErrNetwork ErrorKind = "network"
	// ErrAPI means the remote returned a non-2xx, non-429 status.
	ErrAPI ErrorKind = "api_error"
	// ErrUnsupported means the requested search type or method is not
	// implemented by the adapter.
	ErrUnsupported ErrorKind = "unsupported_operation"
	// ErrAdapterNotFound means no adapter is registered for the connector type.
	ErrAdapterNotFound ErrorKind = "adapter_not_found"
	// ErrNotFound means the referenced connector does not exist.
	ErrNotFound ErrorKind = "not_found"
	// ErrProcessing means normalization failed; adapters convert this into a
	// partial result rather than returning it, so callers rarely see it.
	ErrProcessing ErrorKind = "processing"
)

// Error is the structured failure returned by the transport and adapters.
// Network and API failures are always returned as *Error values, never
// propagated as panics past the adapter boundary.
type Error struct {
	Kind       ErrorKind
	StatusCode int    // set for api_error and rate_limited responses
	Message    string // human readable
	Body       any    // parsed response body for non-2xx responses, if any
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the ErrorKind from err, or empty string if err is not a
// connector error.
func KindOf(err error) ErrorKind {
	if ce, ok := err.(*Error); ok {
		return ce.Kind
	}
	return ""
}
