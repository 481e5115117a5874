package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Resource errors
const (
	// ErrCodeNotFound indicates the meeting, session, or summary was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidState indicates an operation is not allowed in the
	// resource's current lifecycle state.
	ErrCodeInvalidState ErrorCode = "INVALID_STATE"
	// ErrCodeAlreadyActive indicates a transcription session is already
	// running for the meeting.
	ErrCodeAlreadyActive ErrorCode = "ALREADY_ACTIVE"
	// ErrCodeNoTranscript indicates the meeting has no transcription segments.
	ErrCodeNoTranscript ErrorCode = "NO_TRANSCRIPT"
)

// Validation errors
const (
	// ErrCodeValidation indicates malformed input or configuration.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrCodeConcurrencyConflict indicates two writers raced on the same
	// per-meeting sequence. Prevented by design; surfaced rather than
	// silently resolved.
	ErrCodeConcurrencyConflict ErrorCode = "CONCURRENCY_CONFLICT"
)

// Backend errors
const (
	// ErrCodeBackendTransient indicates a backend failure where a retry may
	// succeed (timeout, temporary unavailability).
	ErrCodeBackendTransient ErrorCode = "BACKEND_TRANSIENT"
	// ErrCodeBackendPermanent indicates a backend failure a retry will not
	// fix (misconfiguration, unsupported or oversized input).
	ErrCodeBackendPermanent ErrorCode = "BACKEND_PERMANENT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeRepository indicates a persistence-layer error.
	ErrCodeRepository ErrorCode = "REPOSITORY_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeBackendTransient: true,
	ErrCodeRepository:       true,
	ErrCodeBackendPermanent: false,
	ErrCodeInternal:         false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
