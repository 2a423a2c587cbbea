package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorType represents the category of error that occurred while fetching one kind
type ErrorType string

const (
	// ErrorTypeNetwork indicates a network-level error (connection refused, DNS, etc.)
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeTimeout indicates the request timed out
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeCanceled indicates the run was interrupted before the request completed
	ErrorTypeCanceled ErrorType = "canceled"
	// ErrorTypeRateLimit indicates the request was rejected with HTTP 429
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeServer indicates a server error (HTTP 5xx)
	ErrorTypeServer ErrorType = "server"
	// ErrorTypeClient indicates a client error (HTTP 4xx except 429)
	ErrorTypeClient ErrorType = "client"
	// ErrorTypeDecode indicates the body was not a JSON object
	ErrorTypeDecode ErrorType = "decode"
	// ErrorTypeValidation indicates the body parsed but lacks the key required for its kind
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypePanic indicates the fetch task panicked and was recovered
	ErrorTypePanic ErrorType = "panic"
	// ErrorTypeUnknown indicates an error of unknown type
	ErrorTypeUnknown ErrorType = "unknown"
)

// FetchError is the per-kind failure marker produced at the fetcher boundary.
// Every type except validation is a transport failure.
type FetchError struct {
	Kind       Kind
	Type       ErrorType
	StatusCode int
	Message    string

	// Payload is the offending response for validation failures, kept for diagnostics.
	Payload RawResponse

	Cause error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	prefix := string(e.Type)
	if e.Kind != "" {
		prefix = fmt.Sprintf("%s: %s", e.Kind, e.Type)
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", prefix, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", prefix, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// IsTransport reports whether the failure happened before a response could be validated.
func (e *FetchError) IsTransport() bool {
	return e.Type != ErrorTypeValidation
}

// WithKind returns a copy of e tagged with kind.
func (e *FetchError) WithKind(kind Kind) *FetchError {
	cp := *e
	cp.Kind = kind
	return &cp
}

// NewNetworkError creates a network error
func NewNetworkError(cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeNetwork,
		Message: "network request failed",
		Cause:   cause,
	}
}

// NewTimeoutError creates a timeout error
func NewTimeoutError(cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeTimeout,
		Message: "request timed out",
		Cause:   cause,
	}
}

// NewCanceledError creates an error for a request abandoned because its context was canceled
func NewCanceledError(cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeCanceled,
		Message: "request canceled",
		Cause:   cause,
	}
}

// NewDecodeError creates an error for a body that is not a JSON object
func NewDecodeError(cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeDecode,
		Message: "response body is not a JSON object",
		Cause:   cause,
	}
}

// NewValidationError creates a validation error carrying the offending payload
func NewValidationError(kind Kind, payload RawResponse, message string) *FetchError {
	return &FetchError{
		Kind:    kind,
		Type:    ErrorTypeValidation,
		Message: message,
		Payload: payload,
	}
}

// NewPanicError wraps a recovered panic from a fetch task
func NewPanicError(kind Kind, cause error) *FetchError {
	return &FetchError{
		Kind:    kind,
		Type:    ErrorTypePanic,
		Message: "fetch task panicked",
		Cause:   cause,
	}
}

// ClassifyHTTPError classifies an HTTP status code into an appropriate FetchError
func ClassifyHTTPError(statusCode int) *FetchError {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return &FetchError{Type: ErrorTypeRateLimit, StatusCode: statusCode, Message: "rate limit exceeded"}
	case statusCode >= 500:
		return &FetchError{Type: ErrorTypeServer, StatusCode: statusCode, Message: "server returned an error"}
	case statusCode >= 400:
		return &FetchError{Type: ErrorTypeClient, StatusCode: statusCode, Message: fmt.Sprintf("client error: HTTP %d", statusCode)}
	default:
		return &FetchError{
			Type:       ErrorTypeUnknown,
			StatusCode: statusCode,
			Message:    fmt.Sprintf("unexpected status code: %d", statusCode),
		}
	}
}

// ClassifyTransportError turns an error returned by the HTTP client into a FetchError.
func ClassifyTransportError(err error) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewTimeoutError(err)
	}
	if errors.Is(err, context.Canceled) {
		return NewCanceledError(err)
	}
	return NewNetworkError(err)
}

// AsFetchError converts any error into a *FetchError tagged with kind.
func AsFetchError(kind Kind, err error) *FetchError {
	return ClassifyTransportError(err).WithKind(kind)
}
