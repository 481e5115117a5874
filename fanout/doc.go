// Package fanout provides a generic multi-subscriber broadcast hub.
//
// The lifecycle manager publishes meeting events through it and the
// transcription manager publishes live segments. Producers never block:
// a subscriber that stops draining its channel is evicted rather than
// allowed to stall the scan loop or the audio ingestion path.
package fanout
