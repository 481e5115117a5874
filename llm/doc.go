// Package llm defines the text generation port used by summary generation.
//
// A Provider wraps a generation backend behind a small interface with a
// blocking Complete call and a channel-based Stream call. Backends live in
// subpackages (for example ollama) and register through the provider
// framework, so callers select backends by name or availability:
//
//	mgr := llm.NewManager()
//	mgr.Register(ollama.ProviderName, ollama.Factory())
//	if err := mgr.Initialize(ollama.ProviderName, nil); err != nil { ... }
//	p, err := mgr.Get(ctx)
//
// Backend failures are reported as typed errors: transient failures
// (timeouts, unreachable server, 5xx responses) are retryable, permanent
// failures (rejected input, unknown model) are not.
package llm
