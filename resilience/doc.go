// Package resilience provides retry and circuit breaker patterns for calls
// to external backends.
//
// The two compose: wrap each attempt in the breaker so repeated failures
// fail fast instead of hammering an unhealthy backend.
//
//	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("generation"))
//	resp, err := resilience.Retry(ctx, resilience.DefaultRetryConfig(), func() (*Response, error) {
//	    var r *Response
//	    err := cb.Execute(func() error {
//	        var callErr error
//	        r, callErr = backend.Call(ctx)
//	        return callErr
//	    })
//	    return r, err
//	})
package resilience
