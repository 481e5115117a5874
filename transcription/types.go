package transcription

import "time"

// Segment is one finalized unit of transcribed text with a stable position in
// a meeting's transcript. Immutable once persisted.
type Segment struct {
	// ID is the segment's unique identifier.
	ID string `json:"id"`
	// MeetingID is the owning meeting.
	MeetingID string `json:"meeting_id"`
	// StartOffsetMs is the start offset from meeting start, in milliseconds.
	StartOffsetMs int64 `json:"start_offset_ms"`
	// EndOffsetMs is the end offset from meeting start, in milliseconds.
	EndOffsetMs int64 `json:"end_offset_ms"`
	// Text is the transcribed text.
	Text string `json:"text"`
	// Confidence is the acoustic-model confidence in [0, 1].
	Confidence float64 `json:"confidence"`
	// SegmentNumber is strictly increasing per meeting, starting at 1.
	SegmentNumber int `json:"segment_number"`
	// SpeakerID is the attributed speaker label, if diarization is enabled.
	SpeakerID string `json:"speaker_id,omitempty"`
	// IsFinal reports whether the segment is a finalized hypothesis.
	IsFinal bool `json:"is_final"`
	// Language is the detected or configured language (e.g. "en").
	Language string `json:"language,omitempty"`
	// CreatedAt is the ingestion timestamp.
	CreatedAt time.Time `json:"created_at"`
}

// WordCount returns the number of whitespace-separated words in the segment.
func (s Segment) WordCount() int {
	return countWords(s.Text)
}

// Candidate is one decoded audio-derived text hypothesis produced by the
// external acoustic pipeline. Candidates below the session's confidence
// threshold never become segments.
type Candidate struct {
	Text          string  `json:"text"`
	Confidence    float64 `json:"confidence"`
	SpeakerID     string  `json:"speaker_id,omitempty"`
	Language      string  `json:"language,omitempty"`
	StartOffsetMs int64   `json:"start_offset_ms"`
	EndOffsetMs   int64   `json:"end_offset_ms"`
	IsFinal       bool    `json:"is_final"`
}

// AudioChunk is one unit of decoded audio text candidates for ingestion.
type AudioChunk struct {
	Candidates []Candidate `json:"candidates"`
}

// Stats aggregates a meeting's transcript.
type Stats struct {
	MeetingID         string     `json:"meeting_id"`
	SegmentCount      int        `json:"segment_count"`
	WordCount         int        `json:"word_count"`
	AverageConfidence float64    `json:"average_confidence"`
	DroppedCandidates int64      `json:"dropped_candidates"`
	FirstSegmentAt    *time.Time `json:"first_segment_at,omitempty"`
	LastSegmentAt     *time.Time `json:"last_segment_at,omitempty"`
	SpeakerCount      int        `json:"speaker_count"`
	Languages         []string   `json:"languages,omitempty"`
}
