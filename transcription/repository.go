package transcription

import "context"

// SegmentRepository is the persistence contract for transcript segments.
// ListSegments returns segments in ascending SegmentNumber order.
type SegmentRepository interface {
	SaveSegment(ctx context.Context, seg Segment) error
	ListSegments(ctx context.Context, meetingID string) ([]Segment, error)
	CountSegments(ctx context.Context, meetingID string) (int, error)
}
