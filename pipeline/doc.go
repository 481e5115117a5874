// Package pipeline provides composable, pull-based sequence operators.
//
// Pipelines are lazy: no work happens until values are pulled via Collect,
// Drain, or ForEach. A pipeline built with FromFunc is restartable, since
// each pull creates a fresh iterator over the source's current state. The
// meeting and transcription managers expose their snapshot reads as
// pipelines so callers can page, filter, and export without the core
// materializing intermediate collections.
//
// # Usage
//
//	segs := sessions.Segments("m-1")
//	finals := pipeline.Filter(segs, func(s transcription.Segment) bool {
//	    return s.IsFinal
//	})
//	all, _ := pipeline.Collect(ctx, finals)
package pipeline
