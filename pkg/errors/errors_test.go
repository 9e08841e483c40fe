package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeInvalidParameter, "num_grupos must be positive", http.StatusBadRequest)

	if err.Code != CodeInvalidParameter {
		t.Errorf("expected code %s, got %s", CodeInvalidParameter, err.Code)
	}
	if err.Message != "num_grupos must be positive" {
		t.Errorf("expected message 'num_grupos must be positive', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, err.HTTPStatus)
	}
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("zip: not a valid zip file")
	wrapped := Wrap(originalErr, CodeReadError, "could not read spreadsheet", http.StatusInternalServerError)

	if wrapped.Err != originalErr {
		t.Errorf("expected wrapped error to contain original error")
	}
	if wrapped.Code != CodeReadError {
		t.Errorf("expected code %s, got %s", CodeReadError, wrapped.Code)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeMissingColumn,
				Message: "phone column not found",
			},
			expected: "MISSING_COLUMN: phone column not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("disk full"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: disk full)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appErr.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Wrap(originalErr, CodeInternal, "wrapped", http.StatusInternalServerError)

	unwrapped := errors.Unwrap(appErr)
	if unwrapped != originalErr {
		t.Errorf("Unwrap() should return original error")
	}
}

func TestConstructors_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"missing column", MissingColumn("missing", nil), CodeMissingColumn, http.StatusBadRequest},
		{"invalid parameter", InvalidParameter("bad", nil), CodeInvalidParameter, http.StatusBadRequest},
		{"read failure", ReadFailure("unreadable", errors.New("eof")), CodeReadError, http.StatusInternalServerError},
		{"bad request", BadRequest("no file"), CodeBadRequest, http.StatusBadRequest},
		{"too large", TooLarge(1024), CodeTooLarge, http.StatusRequestEntityTooLarge},
		{"internal", Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("slow"), CodeTimeout, http.StatusServiceUnavailable},
		{"rate limited", RateLimited("slow down"), CodeRateLimited, http.StatusTooManyRequests},
		{"unsupported media", UnsupportedMedia("multipart only"), CodeUnsupportedMedia, http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, tt.err.Code)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, tt.err.StatusCode())
			}
		})
	}
}

func TestAppError_WithDetails(t *testing.T) {
	err := InvalidParameter("validation failed", nil)
	err = err.WithDetails(map[string]any{"field": "num_grupos"})

	if err.Details["field"] != "num_grupos" {
		t.Errorf("expected field 'num_grupos', got %v", err.Details["field"])
	}
}

func TestAsAppError(t *testing.T) {
	appErr := MissingColumn("missing", nil)
	regularErr := errors.New("regular error")

	if result := AsAppError(appErr); result != appErr {
		t.Errorf("AsAppError() should return same AppError")
	}

	wrapped := fmt.Errorf("service: %w", appErr)
	if result := AsAppError(wrapped); result != appErr {
		t.Errorf("AsAppError() should unwrap to the inner AppError")
	}

	result := AsAppError(regularErr)
	if result.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap regular error as internal error")
	}
	if result.Message != "regular error" {
		t.Errorf("AsAppError() should keep the error description, got %q", result.Message)
	}
	if result.Err != regularErr {
		t.Errorf("AsAppError() should wrap the original error")
	}
}

func TestIsAppError(t *testing.T) {
	if !IsAppError(fmt.Errorf("ctx: %w", BadRequest("x"))) {
		t.Errorf("IsAppError() should return true for a wrapped AppError")
	}
	if IsAppError(errors.New("regular error")) {
		t.Errorf("IsAppError() should return false for regular error")
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	err := MissingColumn("phone column not found", map[string]any{"accepted": []string{"TELEFONE"}})

	if writeErr := WriteError(w, err); writeErr != nil {
		t.Fatalf("WriteError() returned %v", writeErr)
	}

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}

	var body ErrorResponse
	if decodeErr := json.NewDecoder(w.Body).Decode(&body); decodeErr != nil {
		t.Fatalf("failed to decode body: %v", decodeErr)
	}
	if body.Code != CodeMissingColumn {
		t.Errorf("expected code %s, got %s", CodeMissingColumn, body.Code)
	}
}
