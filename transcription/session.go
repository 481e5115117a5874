package transcription

import (
	"sync"
	"time"
)

// SessionStatus is the control state of a transcription session.
type SessionStatus string

const (
	SessionNotStarted SessionStatus = "NOT_STARTED"
	SessionActive     SessionStatus = "ACTIVE"
	SessionStopped    SessionStatus = "STOPPED"
	SessionError      SessionStatus = "ERROR"
)

// session is per-meeting transcription control state. It is not persisted;
// restarting transcription creates a fresh session whose numbering resumes
// after the meeting's last persisted segment, keeping the per-meeting
// sequence gapless across restarts.
//
// mu serializes ingestion for the meeting: segment-number assignment is a
// critical section, one writer at a time per meeting. Sessions for different
// meetings ingest in parallel.
type session struct {
	meetingID string

	mu                sync.Mutex
	status            SessionStatus
	cfg               SessionConfig
	nextSegmentNumber int
	droppedCandidates int64
	startedAt         time.Time
}

func newSession(meetingID string, cfg SessionConfig, nextSegmentNumber int) *session {
	return &session{
		meetingID:         meetingID,
		status:            SessionActive,
		cfg:               cfg,
		nextSegmentNumber: nextSegmentNumber,
		startedAt:         time.Now(),
	}
}

// SessionInfo is a read-only snapshot of a session's control state.
type SessionInfo struct {
	MeetingID         string        `json:"meeting_id"`
	Status            SessionStatus `json:"status"`
	Config            SessionConfig `json:"config"`
	NextSegmentNumber int           `json:"next_segment_number"`
	DroppedCandidates int64         `json:"dropped_candidates"`
	StartedAt         time.Time     `json:"started_at"`
}

func (s *session) snapshot() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionInfo{
		MeetingID:         s.meetingID,
		Status:            s.status,
		Config:            s.cfg,
		NextSegmentNumber: s.nextSegmentNumber,
		DroppedCandidates: s.droppedCandidates,
		StartedAt:         s.startedAt,
	}
}
