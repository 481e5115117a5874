package meeting

import "time"

// EventType classifies a lifecycle notification.
type EventType string

const (
	EventMeetingStarted     EventType = "MEETING_STARTED"
	EventMeetingEnded       EventType = "MEETING_ENDED"
	EventParticipantChanged EventType = "PARTICIPANT_CHANGED"
	EventStatusChanged      EventType = "STATUS_CHANGED"
)

// Event is an append-only lifecycle notification. The Meeting record is
// authoritative; events exist so subscribers can follow along without
// polling. Events are never persisted as a source of truth.
type Event struct {
	MeetingID   string    `json:"meeting_id"`
	Type        EventType `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	ProcessID   string    `json:"process_id,omitempty"`
	WindowTitle string    `json:"window_title,omitempty"`

	// Status carries the meeting's status after the transition, when the
	// event reflects one.
	Status Status `json:"status,omitempty"`
	// ParticipantCount carries the new count for PARTICIPANT_CHANGED.
	ParticipantCount int `json:"participant_count,omitempty"`
}
