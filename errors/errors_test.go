package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestNew_RetryableDetection(t *testing.T) {
	tests := []struct {
		code      ErrorCode
		retryable bool
	}{
		{ErrCodeRegistryUnavailable, true},
		{ErrCodeRegistryRejected, true},
		{ErrCodeTimeout, true},
		{ErrCodeInvalidInput, false},
		{ErrCodeMissingField, false},
		{ErrCodeInternal, false},
	}
	for _, tc := range tests {
		t.Run(string(tc.code), func(t *testing.T) {
			err := New(tc.code, "msg", http.StatusTeapot)
			if err.Retryable != tc.retryable {
				t.Errorf("expected retryable=%v, got %v", tc.retryable, err.Retryable)
			}
			if err.HTTPStatus != http.StatusTeapot {
				t.Errorf("expected status %d, got %d", http.StatusTeapot, err.HTTPStatus)
			}
		})
	}
}

func TestMissingField(t *testing.T) {
	err := MissingField("announce.discovery.hosts")
	if err.Code != ErrCodeMissingField {
		t.Errorf("expected MISSING_FIELD, got %s", err.Code)
	}
	if err.Details["field"] != "announce.discovery.hosts" {
		t.Errorf("unexpected details: %v", err.Details)
	}
	if !strings.Contains(err.Error(), "announce.discovery.hosts") {
		t.Errorf("message should name the field: %q", err.Error())
	}
}

func TestInvalidInput_NoField(t *testing.T) {
	err := InvalidInput("", "bad")
	if _, ok := err.Details["field"]; ok {
		t.Error("expected no field detail when field is empty")
	}
}

func TestRegistryErrors(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	unavailable := RegistryUnavailable("http://a:1", cause)
	if !unavailable.Retryable {
		t.Error("registry unavailable should be retryable")
	}
	if !stderrors.Is(unavailable, cause) {
		t.Error("expected cause to be unwrappable")
	}
	if !strings.Contains(unavailable.Error(), "connection refused") {
		t.Errorf("expected cause in message, got %q", unavailable.Error())
	}

	rejected := RegistryRejected("http://a:1", 500)
	if rejected.Details["status_code"] != 500 {
		t.Errorf("unexpected details: %v", rejected.Details)
	}
}

func TestInternal_WrapsCause(t *testing.T) {
	cause := stderrors.New("json: unsupported value")
	err := Internal(cause)
	if stderrors.Unwrap(err) != cause {
		t.Error("expected Unwrap to return cause")
	}
}

func TestWithHelpers(t *testing.T) {
	err := NotStarted("announce").WithDetail("node_id", "n1").WithCause(stderrors.New("x"))
	if err.Details["node_id"] != "n1" || err.Details["component"] != "announce" {
		t.Errorf("unexpected details: %v", err.Details)
	}
	if err.Cause == nil {
		t.Error("expected cause")
	}
	if err.HTTPStatus != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", err.HTTPStatus)
	}
}

func TestAsAppErrorAndIsCode(t *testing.T) {
	wrapped := fmt.Errorf("startup: %w", MissingField("x"))
	appErr, ok := AsAppError(wrapped)
	if !ok || appErr.Code != ErrCodeMissingField {
		t.Fatalf("expected wrapped AppError, got %v", wrapped)
	}
	if !IsCode(wrapped, ErrCodeMissingField) {
		t.Error("IsCode should see through wrapping")
	}
	if IsCode(stderrors.New("plain"), ErrCodeInternal) {
		t.Error("plain errors have no code")
	}

	resp := Timeout("withdraw").ToResponse()
	if resp.Error.Code != ErrCodeTimeout || !resp.Error.Retryable {
		t.Errorf("unexpected response: %+v", resp)
	}
}
