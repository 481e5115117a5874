package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/meetscribe/errors"
	"github.com/kbukum/meetscribe/resilience"
)

type flakyProvider struct {
	failures int
	calls    int
	err      error
}

func (p *flakyProvider) Name() string { return "flaky" }

func (p *flakyProvider) IsAvailable(context.Context) bool { return true }

func (p *flakyProvider) Complete(context.Context, CompletionRequest) (*CompletionResponse, error) {
	p.calls++
	if p.calls <= p.failures {
		return nil, p.err
	}
	return &CompletionResponse{Content: "ok"}, nil
}

func (p *flakyProvider) Stream(context.Context, CompletionRequest) (<-chan StreamChunk, error) {
	ch := make(chan StreamChunk, 1)
	ch <- StreamChunk{Content: "ok", Done: true}
	close(ch)
	return ch, nil
}

func fastRetry() resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		BackoffFactor:  2.0,
		RetryIf:        retryable,
	}
}

func TestResilientRetriesTransientFailures(t *testing.T) {
	inner := &flakyProvider{failures: 2, err: errors.BackendTransient("flaky", nil)}
	p := NewResilientProvider(inner, WithRetryConfig(fastRetry()))

	resp, err := p.Complete(context.Background(), CompletionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, 3, inner.calls)
}

func TestResilientDoesNotRetryPermanentFailures(t *testing.T) {
	inner := &flakyProvider{failures: 10, err: errors.BackendPermanent("flaky", "bad model", nil)}
	p := NewResilientProvider(inner, WithRetryConfig(fastRetry()))

	_, err := p.Complete(context.Background(), CompletionRequest{})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeBackendPermanent))
	assert.Equal(t, 1, inner.calls)
}

func TestResilientCircuitOpensAfterRepeatedFailures(t *testing.T) {
	inner := &flakyProvider{failures: 100, err: errors.BackendTransient("flaky", nil)}
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:        "flaky",
		MaxFailures: 2,
		Timeout:     time.Minute,
	})
	p := NewResilientProvider(inner, WithRetryConfig(fastRetry()), WithCircuitBreaker(cb))

	_, err := p.Complete(context.Background(), CompletionRequest{})
	require.Error(t, err)
	assert.Equal(t, resilience.StateOpen, cb.State())

	// Subsequent calls fail fast without reaching the backend.
	calls := inner.calls
	_, err = p.Complete(context.Background(), CompletionRequest{})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeBackendTransient))
	assert.Equal(t, calls, inner.calls)

	assert.False(t, p.IsAvailable(context.Background()))

	_, err = p.Stream(context.Background(), CompletionRequest{})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeBackendTransient))
}

func TestResilientPassesThroughWhenHealthy(t *testing.T) {
	inner := &flakyProvider{}
	p := NewResilientProvider(inner)

	assert.Equal(t, "flaky", p.Name())
	assert.True(t, p.IsAvailable(context.Background()))

	ch, err := p.Stream(context.Background(), CompletionRequest{})
	require.NoError(t, err)
	chunk := <-ch
	assert.Equal(t, "ok", chunk.Content)
}
