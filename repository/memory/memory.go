// Package memory provides an in-memory repository implementing the meeting,
// segment, and summary persistence ports. It is the default backing store for
// development and tests; durable backends plug in behind the same ports.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/kbukum/meetscribe/errors"
	"github.com/kbukum/meetscribe/meeting"
	"github.com/kbukum/meetscribe/summary"
	"github.com/kbukum/meetscribe/transcription"
)

// Repository is a thread-safe in-memory store. The zero value is not usable;
// construct with New.
type Repository struct {
	mu        sync.RWMutex
	meetings  map[string]meeting.Meeting
	segments  map[string][]transcription.Segment // keyed by meeting id, append order
	summaries map[string][]summary.Summary       // keyed by meeting id, append order
}

// New creates an empty repository.
func New() *Repository {
	return &Repository{
		meetings:  make(map[string]meeting.Meeting),
		segments:  make(map[string][]transcription.Segment),
		summaries: make(map[string][]summary.Summary),
	}
}

// SaveMeeting inserts or replaces a meeting snapshot.
func (r *Repository) SaveMeeting(_ context.Context, m meeting.Meeting) error {
	if m.ID == "" {
		return errors.InvalidInput("meeting", "id must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.meetings[m.ID] = m
	return nil
}

// GetMeeting returns the stored meeting or NotFound.
func (r *Repository) GetMeeting(_ context.Context, id string) (meeting.Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.meetings[id]
	if !ok {
		return meeting.Meeting{}, errors.NotFound("meeting", id)
	}
	return m, nil
}

// ListMeetings returns all stored meetings ordered by start time.
func (r *Repository) ListMeetings(_ context.Context) ([]meeting.Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]meeting.Meeting, 0, len(r.meetings))
	for _, m := range r.meetings {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out, nil
}

// SaveSegment appends a segment to its meeting's transcript. Segments are
// immutable; re-saving a segment number already present for the meeting is a
// concurrency conflict.
func (r *Repository) SaveSegment(_ context.Context, seg transcription.Segment) error {
	if seg.MeetingID == "" {
		return errors.InvalidInput("segment", "meeting id must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := r.segments[seg.MeetingID]
	for _, s := range existing {
		if s.SegmentNumber == seg.SegmentNumber {
			return errors.ConcurrencyConflict("segment")
		}
	}
	r.segments[seg.MeetingID] = append(existing, seg)
	return nil
}

// ListSegments returns the meeting's segments in ascending segment-number
// order. A meeting with no segments yields an empty slice, not an error.
func (r *Repository) ListSegments(_ context.Context, meetingID string) ([]transcription.Segment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]transcription.Segment(nil), r.segments[meetingID]...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].SegmentNumber < out[j].SegmentNumber
	})
	return out, nil
}

// CountSegments returns the number of segments stored for the meeting.
func (r *Repository) CountSegments(_ context.Context, meetingID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.segments[meetingID]), nil
}

// SaveSummary appends a summary record.
func (r *Repository) SaveSummary(_ context.Context, s summary.Summary) error {
	if s.MeetingID == "" {
		return errors.InvalidInput("summary", "meeting id must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries[s.MeetingID] = append(r.summaries[s.MeetingID], s)
	return nil
}

// ListSummaries returns the meeting's summaries in generation order.
func (r *Repository) ListSummaries(_ context.Context, meetingID string) ([]summary.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]summary.Summary(nil), r.summaries[meetingID]...), nil
}

var (
	_ meeting.Repository              = (*Repository)(nil)
	_ transcription.SegmentRepository = (*Repository)(nil)
	_ summary.Repository              = (*Repository)(nil)
)
