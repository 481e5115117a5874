// Package errors provides unified error handling for the meetscribe core.
// It implements structured error types with machine-readable codes, HTTP
// status hints for the API layer, and retryable detection so callers can
// distinguish "try again" from "fix your input" from "system is broken".
package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithMeeting tags the error with the meeting it relates to.
func (e *AppError) WithMeeting(meetingID string) *AppError {
	return e.WithDetail("meeting_id", meetingID)
}

// WithOperation tags the error with the operation that produced it.
func (e *AppError) WithOperation(op string) *AppError {
	return e.WithDetail("operation", op)
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Common Error Constructors ---

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false, Details: details,
	}
}

// InvalidState creates a new AppError for an operation attempted in a state
// that does not allow it.
func InvalidState(resource, state, operation string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidState, Message: fmt.Sprintf("Cannot %s a %s in state %s.", operation, resource, state),
		HTTPStatus: http.StatusConflict, Retryable: false,
		Details: map[string]any{"resource": resource, "state": state, "operation": operation},
	}
}

// AlreadyActive creates a new AppError for a transcription session that is
// already running for the meeting.
func AlreadyActive(meetingID string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyActive, Message: "A transcription session is already active for this meeting.",
		HTTPStatus: http.StatusConflict, Retryable: false,
		Details: map[string]any{"meeting_id": meetingID},
	}
}

// NoTranscript creates a new AppError for a meeting with no transcript.
func NoTranscript(meetingID string) *AppError {
	return &AppError{
		Code: ErrCodeNoTranscript, Message: "The meeting has no transcription segments to summarize.",
		HTTPStatus: http.StatusPreconditionFailed, Retryable: false,
		Details: map[string]any{"meeting_id": meetingID},
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeValidation, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// InvalidInput creates a new AppError for an invalid field value.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeValidation, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// ConcurrencyConflict creates a new AppError for a racing sequence assignment.
func ConcurrencyConflict(resource string) *AppError {
	return &AppError{
		Code: ErrCodeConcurrencyConflict, Message: fmt.Sprintf("Concurrent modification detected on %s.", resource),
		HTTPStatus: http.StatusConflict, Retryable: false,
		Details: map[string]any{"resource": resource},
	}
}

// BackendTransient creates a new AppError for a backend failure that is safe
// to retry.
func BackendTransient(backend string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeBackendTransient, Message: fmt.Sprintf("The %s backend is temporarily unavailable. Please try again.", backend),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"backend": backend}, Cause: cause,
	}
}

// BackendTimeout creates a new AppError for a backend call that timed out.
func BackendTimeout(backend, operation string) *AppError {
	return &AppError{
		Code: ErrCodeBackendTransient, Message: fmt.Sprintf("The %s backend took too long. Please try again.", backend),
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"backend": backend, "operation": operation},
	}
}

// BackendPermanent creates a new AppError for a backend failure a retry will
// not fix.
func BackendPermanent(backend, reason string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeBackendPermanent, Message: fmt.Sprintf("The %s backend rejected the request: %s", backend, reason),
		HTTPStatus: http.StatusBadGateway, Retryable: false,
		Details: map[string]any{"backend": backend}, Cause: cause,
	}
}

// Internal creates a new AppError for an internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred. Please try again or contact support.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// Repository creates a new AppError for a persistence-layer failure.
func Repository(operation string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeRepository, Message: "A storage error occurred. Please try again.",
		HTTPStatus: http.StatusInternalServerError, Retryable: true,
		Details: map[string]any{"operation": operation}, Cause: cause,
	}
}
