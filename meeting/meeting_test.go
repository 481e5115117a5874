package meeting

import (
	"testing"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"detected to recording", StatusDetected, StatusRecording, true},
		{"detected to processing", StatusDetected, StatusProcessing, true},
		{"detected to error", StatusDetected, StatusError, true},
		{"detected to completed", StatusDetected, StatusCompleted, false},
		{"recording to processing", StatusRecording, StatusProcessing, true},
		{"recording to error", StatusRecording, StatusError, true},
		{"recording to detected", StatusRecording, StatusDetected, false},
		{"recording to completed", StatusRecording, StatusCompleted, false},
		{"processing to completed", StatusProcessing, StatusCompleted, true},
		{"processing to error", StatusProcessing, StatusError, true},
		{"processing to recording", StatusProcessing, StatusRecording, false},
		{"completed is terminal", StatusCompleted, StatusError, false},
		{"completed to processing", StatusCompleted, StatusProcessing, false},
		{"error is terminal", StatusError, StatusDetected, false},
		{"error to error", StatusError, StatusError, false},
		{"self transition rejected", StatusRecording, StatusRecording, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.allowed)
			}
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	terminal := map[Status]bool{
		StatusDetected:   false,
		StatusRecording:  false,
		StatusProcessing: false,
		StatusCompleted:  true,
		StatusError:      true,
	}
	for status, want := range terminal {
		if got := status.Terminal(); got != want {
			t.Errorf("%s.Terminal() = %v, want %v", status, got, want)
		}
	}
}
