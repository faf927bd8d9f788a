package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Retryable(t *testing.T) {
	if err := New(ErrCodeTimeout, "timed out", http.StatusGatewayTimeout); !err.Retryable {
		t.Error("TIMEOUT should be retryable")
	}
	if err := New(ErrCodeMissingField, "missing", http.StatusBadRequest); err.Retryable {
		t.Error("MISSING_FIELD should not be retryable")
	}
}

func TestAppError_MissingField(t *testing.T) {
	err := MissingField("ref")
	if err.Code != ErrCodeMissingField {
		t.Errorf("expected MISSING_FIELD, got %s", err.Code)
	}
	if err.Details["field"] != "ref" {
		t.Errorf("expected field=ref, got %v", err.Details["field"])
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", err.HTTPStatus)
	}
}

func TestAppError_InvalidRef(t *testing.T) {
	err := InvalidRef(42)
	if err.Code != ErrCodeInvalidRef {
		t.Errorf("expected INVALID_REF, got %s", err.Code)
	}
	if !strings.Contains(err.Message, "int") {
		t.Errorf("expected type in message, got %q", err.Message)
	}
}

func TestAppError_InvalidInput_NoField(t *testing.T) {
	err := InvalidInput("", "bad")
	if _, ok := err.Details["field"]; ok {
		t.Error("expected no field detail")
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	root := fmt.Errorf("dial tcp: refused")
	err := ConnectionFailed("web service").WithCause(root)
	if !stderrors.Is(err, root) {
		t.Error("expected errors.Is to find the cause")
	}
	if !strings.Contains(err.Error(), "cause: dial tcp") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := NotFound("defect", "1234").WithDetails(map[string]any{"workspace": "/workspace/1"})
	if err.Details["id"] != "1234" || err.Details["workspace"] != "/workspace/1" {
		t.Errorf("unexpected details: %v", err.Details)
	}
	err2 := RateLimited().WithDetail("retry_after", 3)
	if err2.Details["retry_after"] != 3 {
		t.Errorf("expected retry_after detail, got %v", err2.Details)
	}
}

func TestAppError_Constructors_Table(t *testing.T) {
	tests := []struct {
		name      string
		err       *AppError
		code      ErrorCode
		status    int
		retryable bool
	}{
		{"ServiceUnavailable", ServiceUnavailable("web service"), ErrCodeServiceUnavailable, http.StatusServiceUnavailable, true},
		{"Timeout", Timeout("get"), ErrCodeTimeout, http.StatusGatewayTimeout, true},
		{"RateLimited", RateLimited(), ErrCodeRateLimited, http.StatusTooManyRequests, true},
		{"Unauthorized", Unauthorized(""), ErrCodeUnauthorized, http.StatusUnauthorized, false},
		{"Internal", Internal(nil), ErrCodeInternal, http.StatusInternalServerError, false},
		{"ExternalService", ExternalServiceError("wsapi", nil), ErrCodeExternalService, http.StatusBadGateway, true},
		{"Validation", Validation("type: is required"), ErrCodeInvalidInput, http.StatusBadRequest, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.HTTPStatus != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, tc.err.HTTPStatus)
			}
			if tc.err.Retryable != tc.retryable {
				t.Errorf("expected retryable=%v", tc.retryable)
			}
		})
	}
}

func TestAppError_ToResponse(t *testing.T) {
	resp := MissingField("data").ToResponse()
	if resp.Error.Code != ErrCodeMissingField {
		t.Errorf("expected MISSING_FIELD, got %s", resp.Error.Code)
	}
	if resp.Error.Details["field"] != "data" {
		t.Errorf("expected field detail, got %v", resp.Error.Details)
	}
}

type codedError struct{}

func (codedError) Error() string     { return "HTTP 503" }
func (codedError) ErrorCode() string { return "server" }
func (codedError) IsRetryable() bool { return true }

func TestResponseFor(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      ErrorCode
		retryable bool
	}{
		{"app error", fmt.Errorf("get: %w", InvalidRef("x")), ErrCodeInvalidRef, false},
		{"coded error", fmt.Errorf("get: %w", codedError{}), ErrorCode("SERVER"), true},
		{"plain error", stderrors.New("boom"), ErrCodeInternal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ResponseFor(tt.err)
			if resp.Error.Code != tt.code {
				t.Errorf("code = %s, want %s", resp.Error.Code, tt.code)
			}
			if resp.Error.Retryable != tt.retryable {
				t.Errorf("retryable = %v, want %v", resp.Error.Retryable, tt.retryable)
			}
			if resp.Error.Message == "" {
				t.Error("expected a message")
			}
		})
	}
}

func TestAsAppErrorAndIsCode(t *testing.T) {
	wrapped := fmt.Errorf("create: %w", MissingField("type"))
	if !IsAppError(wrapped) {
		t.Error("expected wrapped AppError to be detected")
	}
	appErr, ok := AsAppError(wrapped)
	if !ok || appErr.Code != ErrCodeMissingField {
		t.Errorf("expected MISSING_FIELD, got %v", appErr)
	}
	if !IsCode(wrapped, ErrCodeMissingField) {
		t.Error("expected IsCode to match")
	}
	if IsCode(stderrors.New("plain"), ErrCodeMissingField) {
		t.Error("plain error must not match")
	}
}
