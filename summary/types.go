package summary

import "time"

// Type selects the summary flavor and its prompt template.
type Type string

const (
	TypeFull        Type = "FULL"
	TypeKeyPoints   Type = "KEY_POINTS"
	TypeDecisions   Type = "DECISIONS"
	TypeActionItems Type = "ACTION_ITEMS"
	TypeExecutive   Type = "EXECUTIVE"
	TypeTechnical   Type = "TECHNICAL"
	TypeCustom      Type = "CUSTOM"
)

// Types lists every supported summary type.
func Types() []Type {
	return []Type{
		TypeFull,
		TypeKeyPoints,
		TypeDecisions,
		TypeActionItems,
		TypeExecutive,
		TypeTechnical,
		TypeCustom,
	}
}

// Valid reports whether t is a known summary type.
func (t Type) Valid() bool {
	switch t {
	case TypeFull, TypeKeyPoints, TypeDecisions, TypeActionItems,
		TypeExecutive, TypeTechnical, TypeCustom:
		return true
	}
	return false
}

// Summary is one generated summary record. Regeneration creates a new record;
// a meeting may hold any number of summaries per type.
type Summary struct {
	ID              string    `json:"id"`
	MeetingID       string    `json:"meeting_id"`
	SummaryType     Type      `json:"summary_type"`
	Content         string    `json:"content"`
	GeneratedAt     time.Time `json:"generated_at"`
	SegmentCount    int       `json:"segment_count"`
	WordCount       int       `json:"word_count"`
	DurationSeconds float64   `json:"duration_seconds"`
	Speakers        []string  `json:"speakers,omitempty"`
	// Prompt holds the caller-supplied prompt for CUSTOM summaries.
	Prompt string `json:"prompt,omitempty"`
}

// Chunk is one unit of streamed summary output. The first chunk of a stream
// has First set; the final chunk has Done set and may carry a terminal Err.
type Chunk struct {
	Content string
	First   bool
	Done    bool
	Err     error
}

// Result pairs one summary type with its outcome in a multi-type generation.
type Result struct {
	Type    Type
	Summary Summary
	Err     error
}
