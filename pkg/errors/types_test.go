package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeNoSpeech, "no speech detected in audio")
	if !strings.Contains(err.Error(), "NO_SPEECH") {
		t.Errorf("Expected error string to contain code, got %q", err.Error())
	}

	cause := stderrors.New("connection refused")
	wrapped := Wrap(cause, ErrCodeServiceDown, "speech service unreachable")
	if !strings.Contains(wrapped.Error(), "connection refused") {
		t.Errorf("Expected wrapped error to mention cause, got %q", wrapped.Error())
	}

	if !stderrors.Is(wrapped, cause) {
		t.Error("Expected errors.Is to match the wrapped cause")
	}
}

func TestHTTPCodes(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeUnsupportedFormat, http.StatusBadRequest},
		{ErrCodeNoSpeech, http.StatusUnprocessableEntity},
		{ErrCodeServiceDown, http.StatusServiceUnavailable},
		{ErrCodeExternalService, http.StatusBadGateway},
		{ErrCodeAPITimeout, http.StatusRequestTimeout},
		{ErrCodeDatabaseQuery, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := New(tt.code, "test").GetHTTPCode(); got != tt.want {
				t.Errorf("GetHTTPCode(%s) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	input := InputError("call.wav", "file is empty")
	if input.Code != ErrCodeInvalidInput {
		t.Errorf("Expected INVALID_INPUT, got %s", input.Code)
	}
	if input.Details["filename"] != "call.wav" {
		t.Errorf("Expected filename detail, got %v", input.Details["filename"])
	}

	noSpeech := NoSpeechError("silence.wav")
	if noSpeech.Code != ErrCodeNoSpeech {
		t.Errorf("Expected NO_SPEECH, got %s", noSpeech.Code)
	}

	notFound := NotFound("call record", 42)
	if notFound.GetHTTPCode() != http.StatusNotFound {
		t.Errorf("Expected 404 for not found, got %d", notFound.GetHTTPCode())
	}

	store := StoreError("insert", stderrors.New("disk full"))
	if store.Code != ErrCodeDatabaseQuery {
		t.Errorf("Expected DATABASE_QUERY, got %s", store.Code)
	}
}

func TestCodeExtraction(t *testing.T) {
	err := New(ErrCodeServiceDown, "translation service unreachable")

	if !Is(err, ErrCodeServiceDown) {
		t.Error("Expected Is to match SERVICE_DOWN")
	}
	if Is(err, ErrCodeNoSpeech) {
		t.Error("Expected Is not to match NO_SPEECH")
	}
	if Is(stderrors.New("plain"), ErrCodeServiceDown) {
		t.Error("Expected Is to reject non-AppError")
	}

	if got := GetCode(err); got != ErrCodeServiceDown {
		t.Errorf("GetCode = %s, want SERVICE_DOWN", got)
	}
	if got := GetCode(stderrors.New("plain")); got != ErrCodeInternal {
		t.Errorf("GetCode for plain error = %s, want INTERNAL", got)
	}

	if got := GetHTTPCode(stderrors.New("plain")); got != http.StatusInternalServerError {
		t.Errorf("GetHTTPCode for plain error = %d, want 500", got)
	}
}

func TestCodeExtractionThroughWrapping(t *testing.T) {
	inner := New(ErrCodeNoSpeech, "no speech detected in audio")
	wrapped := fmt.Errorf("processing call.wav: %w", inner)

	if !Is(wrapped, ErrCodeNoSpeech) {
		t.Error("Expected Is to unwrap to NO_SPEECH")
	}
	if got := GetCode(wrapped); got != ErrCodeNoSpeech {
		t.Errorf("GetCode through wrapping = %s, want NO_SPEECH", got)
	}
	if got := GetHTTPCode(wrapped); got != http.StatusUnprocessableEntity {
		t.Errorf("GetHTTPCode through wrapping = %d, want 422", got)
	}

	twice := fmt.Errorf("job 7: %w", wrapped)
	if got := GetCode(twice); got != ErrCodeNoSpeech {
		t.Errorf("GetCode through double wrapping = %s, want NO_SPEECH", got)
	}
}

func TestWithDetail(t *testing.T) {
	err := New(ErrCodeInternal, "boom").WithDetail("attempt", 3)
	if err.Details["attempt"] != 3 {
		t.Errorf("Expected detail to be stored, got %v", err.Details["attempt"])
	}
}
