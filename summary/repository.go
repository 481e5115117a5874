package summary

import "context"

// Repository is the persistence contract for generated summaries.
// ListSummaries returns summaries in ascending GeneratedAt order.
type Repository interface {
	SaveSummary(ctx context.Context, s Summary) error
	ListSummaries(ctx context.Context, meetingID string) ([]Summary, error)
}
