package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode classifies transport errors.
type ErrorCode int

const (
	ErrCodeTimeout ErrorCode = iota
	ErrCodeConnection
	ErrCodeAuth
	ErrCodeNotFound
	ErrCodeRateLimit
	ErrCodeValidation
	ErrCodeServer
	// ErrCodeDecode means the response body was not a JSON object.
	ErrCodeDecode
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeAuth:
		return "auth"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeRateLimit:
		return "rate_limit"
	case ErrCodeValidation:
		return "validation"
	case ErrCodeServer:
		return "server"
	case ErrCodeDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is a classified transport failure.
type Error struct {
	// StatusCode is 0 for connection-level errors.
	StatusCode int
	Code       ErrorCode
	Message    string
	Retryable  bool
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("transport: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("transport: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// IsRetryable reports whether repeating the request may succeed.
func (e *Error) IsRetryable() bool { return e.Retryable }

// ErrorCode returns the classification name.
func (e *Error) ErrorCode() string { return e.Code.String() }

// NewTimeoutError wraps a request that exceeded its deadline.
func NewTimeoutError(err error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: err.Error(), Retryable: true, Err: err}
}

// NewConnectionError wraps a network-level failure.
func NewConnectionError(err error) *Error {
	return &Error{Code: ErrCodeConnection, Message: err.Error(), Retryable: true, Err: err}
}

// NewDecodeError reports a response body that is not a JSON object.
func NewDecodeError(status int, body []byte, err error) *Error {
	return &Error{StatusCode: status, Code: ErrCodeDecode, Message: err.Error(), Body: body, Err: err}
}

// NewValidationError reports a request that could not be built.
func NewValidationError(msg string) *Error {
	return &Error{Code: ErrCodeValidation, Message: msg}
}

// ClassifyStatusCode converts a non-2xx status into an *Error, or returns
// nil for 2xx. The message is taken from a WSAPI Errors array in the body
// when there is one.
func ClassifyStatusCode(status int, body []byte) *Error {
	if status >= 200 && status < 300 {
		return nil
	}
	e := &Error{StatusCode: status, Message: bodyMessage(status, body), Body: body}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Code = ErrCodeAuth
	case status == http.StatusNotFound:
		e.Code = ErrCodeNotFound
	case status == http.StatusTooManyRequests:
		e.Code, e.Retryable = ErrCodeRateLimit, true
	case status >= 400 && status < 500:
		e.Code = ErrCodeValidation
	case status >= 500:
		e.Code, e.Retryable = ErrCodeServer, true
	default:
		e.Code = ErrCodeServer
	}
	return e
}

func bodyMessage(status int, body []byte) string {
	var payload Payload
	if json.Unmarshal(body, &payload) == nil {
		if errs := stringList(unwrap(payload)["Errors"]); len(errs) > 0 {
			return strings.Join(errs, "; ")
		}
	}
	return fmt.Sprintf("HTTP %d", status)
}

// ResultErrors is the Errors array of a WSAPI response that the server
// answered with HTTP 200. It is returned as-is, never wrapped.
type ResultErrors []string

func (r ResultErrors) Error() string { return strings.Join(r, "; ") }

// IsRetryable is false: the server understood the request and refused it.
func (r ResultErrors) IsRetryable() bool { return false }

// ErrorCode returns the classification name.
func (r ResultErrors) ErrorCode() string { return "result" }

// IsNotFound reports whether err is a 404.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeNotFound
}

// IsAuth reports whether err is a 401 or 403.
func IsAuth(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeAuth
}

// IsRetryable reports whether err is a retryable *Error.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}

// isOutage decides which errors count against the circuit breaker.
func isOutage(err error) bool {
	return err != nil && IsRetryable(err)
}
