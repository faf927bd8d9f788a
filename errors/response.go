package errors

import (
	stderrors "errors"
	"strings"
)

// ErrorResponse is the JSON structure rallyctl prints for failed commands.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody contains the error details.
type ErrorBody struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// ToResponse converts an AppError to an ErrorResponse for JSON serialization.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error: ErrorBody{
			Code:      e.Code,
			Message:   e.Message,
			Retryable: e.Retryable,
			Details:   e.Details,
		},
	}
}

// ResponseFor renders any error as an ErrorResponse. Errors other than
// AppError keep the code and retryability they report about themselves.
func ResponseFor(err error) ErrorResponse {
	if appErr, ok := AsAppError(err); ok {
		return appErr.ToResponse()
	}
	body := ErrorBody{Code: ErrCodeInternal, Message: err.Error()}
	var coded interface{ ErrorCode() string }
	if stderrors.As(err, &coded) {
		body.Code = ErrorCode(strings.ToUpper(coded.ErrorCode()))
	}
	var retryable interface{ IsRetryable() bool }
	if stderrors.As(err, &retryable) {
		body.Retryable = retryable.IsRetryable()
	}
	return ErrorResponse{Error: body}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is an AppError carrying code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
