package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeNotFound, "not found", http.StatusNotFound)
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "not found" {
		t.Errorf("expected message 'not found', got %q", err.Message)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Retryable {
		t.Error("NOT_FOUND should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeBackendTransient, "backend timed out", http.StatusGatewayTimeout)
	if !err.Retryable {
		t.Error("BACKEND_TRANSIENT should be retryable")
	}
}

func TestAppError_NotFound_Success(t *testing.T) {
	err := NotFound("meeting", "m-123")
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", err.Code)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected 404, got %d", err.HTTPStatus)
	}
	if err.Details["resource"] != "meeting" {
		t.Errorf("expected resource=meeting, got %v", err.Details["resource"])
	}
	if err.Details["id"] != "m-123" {
		t.Errorf("expected id=m-123, got %v", err.Details["id"])
	}
}

func TestAppError_NotFound_EmptyID(t *testing.T) {
	err := NotFound("session", "")
	if _, ok := err.Details["id"]; ok {
		t.Error("expected no 'id' key in details when id is empty")
	}
}

func TestAppError_InvalidState(t *testing.T) {
	err := InvalidState("meeting", "COMPLETED", "start transcription")
	if err.Code != ErrCodeInvalidState {
		t.Errorf("expected INVALID_STATE, got %s", err.Code)
	}
	if err.Retryable {
		t.Error("INVALID_STATE should not be retryable")
	}
	if err.Details["state"] != "COMPLETED" {
		t.Errorf("expected state=COMPLETED, got %v", err.Details["state"])
	}
}

func TestAppError_AlreadyActive(t *testing.T) {
	err := AlreadyActive("m-1")
	if err.Code != ErrCodeAlreadyActive {
		t.Errorf("expected ALREADY_ACTIVE, got %s", err.Code)
	}
	if err.Details["meeting_id"] != "m-1" {
		t.Errorf("expected meeting_id=m-1, got %v", err.Details["meeting_id"])
	}
}

func TestAppError_NoTranscript(t *testing.T) {
	err := NoTranscript("m-1")
	if err.Code != ErrCodeNoTranscript {
		t.Errorf("expected NO_TRANSCRIPT, got %s", err.Code)
	}
	if err.Retryable {
		t.Error("NO_TRANSCRIPT should not be retryable")
	}
}

func TestAppError_BackendTransientVsPermanent(t *testing.T) {
	transient := BackendTransient("text-generation", stderrors.New("connection refused"))
	if !transient.Retryable {
		t.Error("transient backend errors must be retryable")
	}

	permanent := BackendPermanent("text-generation", "prompt too large", nil)
	if permanent.Retryable {
		t.Error("permanent backend errors must not be retryable")
	}
	if permanent.Code != ErrCodeBackendPermanent {
		t.Errorf("expected BACKEND_PERMANENT, got %s", permanent.Code)
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Repository("save segment", cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestAppError_Error_WithCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := Internal(cause)
	want := fmt.Sprintf("%s: %s (cause: boom)", err.Code, err.Message)
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestAppError_WithMeetingAndOperation(t *testing.T) {
	err := Validation("threshold out of range").
		WithMeeting("m-9").
		WithOperation("set confidence threshold")
	if err.Details["meeting_id"] != "m-9" {
		t.Errorf("expected meeting_id detail, got %v", err.Details)
	}
	if err.Details["operation"] != "set confidence threshold" {
		t.Errorf("expected operation detail, got %v", err.Details)
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NoTranscript("m-1"))
	if !HasCode(err, ErrCodeNoTranscript) {
		t.Error("expected HasCode to match through wrapping")
	}
	if HasCode(err, ErrCodeNotFound) {
		t.Error("expected HasCode to reject non-matching code")
	}
	if HasCode(stderrors.New("plain"), ErrCodeNotFound) {
		t.Error("expected HasCode to reject plain errors")
	}
}

func TestAsAppError(t *testing.T) {
	appErr, ok := AsAppError(AlreadyActive("m-1"))
	if !ok || appErr.Code != ErrCodeAlreadyActive {
		t.Errorf("expected AsAppError to succeed, got ok=%v code=%v", ok, appErr)
	}
	if _, ok := AsAppError(stderrors.New("plain")); ok {
		t.Error("expected AsAppError to fail on plain errors")
	}
}
