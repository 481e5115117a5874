// Package summary turns a meeting's ordered transcript into generated
// summaries of several types, from full narratives to extracted action items.
//
// The Orchestrator reads segments through the transcription repository port,
// builds a per-type prompt, and calls a generation backend through the llm
// port. Generation is available blocking (Generate, GenerateCustom), streamed
// chunk by chunk (GenerateStream), and fanned out across several types at
// once (GenerateMultiple), where each type succeeds or fails independently.
// EstimateGenerationTime gives callers a deterministic expectation scaled by
// transcript length.
package summary
