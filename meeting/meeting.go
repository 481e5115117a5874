package meeting

import (
	"time"
)

// Status is a meeting's lifecycle state.
type Status string

const (
	// StatusDetected means the scan has observed the meeting but no
	// transcription has started.
	StatusDetected Status = "DETECTED"
	// StatusRecording means a transcription session is active.
	StatusRecording Status = "RECORDING"
	// StatusProcessing means the meeting has ended but cleanup is pending.
	StatusProcessing Status = "PROCESSING"
	// StatusCompleted is terminal: cleanup finished.
	StatusCompleted Status = "COMPLETED"
	// StatusError is terminal: the meeting was degraded by a failure.
	StatusError Status = "ERROR"
)

// allowedTransitions encodes the lifecycle state machine. ERROR is reachable
// from every non-terminal state; COMPLETED and ERROR have no exits.
var allowedTransitions = map[Status][]Status{
	StatusDetected:   {StatusRecording, StatusProcessing, StatusError},
	StatusRecording:  {StatusProcessing, StatusError},
	StatusProcessing: {StatusCompleted, StatusError},
	StatusCompleted:  {},
	StatusError:      {},
}

// Terminal reports whether no transitions leave this status.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// CanTransitionTo reports whether the state machine allows moving to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Meeting is one physically detected meeting-application instance. Identity
// is immutable once created; all mutation goes through the lifecycle Manager.
type Meeting struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Status           Status     `json:"status"`
	StartTime        time.Time  `json:"start_time"`
	EndTime          *time.Time `json:"end_time,omitempty"`
	ProcessID        string     `json:"process_id"`
	ParticipantCount int        `json:"participant_count"`
	ScanSource       string     `json:"scan_source"`
	LastUpdated      time.Time  `json:"last_updated"`
}
