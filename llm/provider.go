package llm

import (
	"context"

	"github.com/kbukum/meetscribe/provider"
)

// Provider is the interface generation backends must implement. Failures are
// reported as typed errors: transient errors (timeouts, unreachable backend)
// are safe to retry, permanent errors (bad model, rejected input) are not.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	// Complete sends a completion request and returns the full response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// Stream sends a completion request and returns a channel of streamed
	// chunks. The channel is closed after the final chunk; a chunk carrying
	// Err terminates the stream.
	Stream(ctx context.Context, req CompletionRequest) (<-chan StreamChunk, error)
}
