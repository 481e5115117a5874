package llm

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/kbukum/meetscribe/errors"
	"github.com/kbukum/meetscribe/logger"
	"github.com/kbukum/meetscribe/resilience"
)

// ResilientProvider wraps a Provider with retry and circuit breaking for the
// blocking Complete path. Only transient backend failures are retried;
// permanent failures and cancellations pass straight through. Stream is not
// retried since a restarted stream would replay chunks the caller already saw.
type ResilientProvider struct {
	inner   Provider
	retry   resilience.RetryConfig
	breaker *resilience.CircuitBreaker
	log     *logger.Logger
}

// ResilientOption configures a ResilientProvider.
type ResilientOption func(*ResilientProvider)

// WithRetryConfig overrides the retry policy.
func WithRetryConfig(cfg resilience.RetryConfig) ResilientOption {
	return func(p *ResilientProvider) { p.retry = cfg }
}

// WithCircuitBreaker overrides the circuit breaker.
func WithCircuitBreaker(cb *resilience.CircuitBreaker) ResilientOption {
	return func(p *ResilientProvider) { p.breaker = cb }
}

// NewResilientProvider wraps inner with retry and circuit breaking.
func NewResilientProvider(inner Provider, opts ...ResilientOption) *ResilientProvider {
	retry := resilience.DefaultRetryConfig()
	retry.RetryIf = retryable

	p := &ResilientProvider{
		inner:   inner,
		retry:   retry,
		breaker: resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig(inner.Name())),
		log:     logger.Get("llm"),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.retry.OnRetry == nil {
		p.retry.OnRetry = func(attempt int, err error, backoff time.Duration) {
			p.log.WithError(err).Warn("retrying generation call", map[string]interface{}{
				"provider": inner.Name(),
				"attempt":  attempt,
				"backoff":  backoff.String(),
			})
		}
	}
	return p
}

// Name returns the wrapped provider's name.
func (p *ResilientProvider) Name() string { return p.inner.Name() }

// IsAvailable reports false while the circuit is open.
func (p *ResilientProvider) IsAvailable(ctx context.Context) bool {
	if p.breaker.State() == resilience.StateOpen {
		return false
	}
	return p.inner.IsAvailable(ctx)
}

// Complete calls the wrapped provider, retrying transient failures with
// backoff. An open circuit surfaces as a transient backend error.
func (p *ResilientProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	resp, err := resilience.Retry(ctx, p.retry, func() (*CompletionResponse, error) {
		var r *CompletionResponse
		execErr := p.breaker.Execute(func() error {
			var callErr error
			r, callErr = p.inner.Complete(ctx, req)
			return callErr
		})
		return r, execErr
	})
	if stderrors.Is(err, resilience.ErrCircuitOpen) {
		return nil, errors.BackendTransient(p.inner.Name(), err)
	}
	return resp, err
}

// Stream delegates to the wrapped provider without retries. The breaker still
// gates the call so a known-bad backend fails fast.
func (p *ResilientProvider) Stream(ctx context.Context, req CompletionRequest) (<-chan StreamChunk, error) {
	if p.breaker.State() == resilience.StateOpen {
		return nil, errors.BackendTransient(p.inner.Name(), resilience.ErrCircuitOpen)
	}
	return p.inner.Stream(ctx, req)
}

// retryable retries transient backend failures only. Circuit-open errors are
// retried as well since the breaker may recover between attempts.
func retryable(err error) bool {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if stderrors.Is(err, resilience.ErrCircuitOpen) {
		return true
	}
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr.Retryable
	}
	return false
}

var _ Provider = (*ResilientProvider)(nil)
