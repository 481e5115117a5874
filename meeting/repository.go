package meeting

import "context"

// Repository is the persistence port for meetings. Implementations must be
// safe for concurrent use; the in-memory reference lives in
// repository/memory.
type Repository interface {
	// SaveMeeting inserts or replaces the meeting record.
	SaveMeeting(ctx context.Context, m Meeting) error

	// GetMeeting returns the meeting by id, or errors.NotFound.
	GetMeeting(ctx context.Context, id string) (Meeting, error)

	// ListMeetings returns all meeting records.
	ListMeetings(ctx context.Context) ([]Meeting, error)
}
