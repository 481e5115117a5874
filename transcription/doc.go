// Package transcription owns per-meeting transcription sessions: it ingests
// decoded audio text candidates, assigns gapless per-meeting segment numbers,
// persists segments, and serves live and historical segment streams.
//
// The acoustic decoding itself is external; this package consumes its output
// as AudioChunk values.
//
//	mgr := transcription.NewManager(repo, transcription.WithLifecycle(lifecycle))
//	info, err := mgr.StartTranscription(ctx, meetingID, transcription.SessionConfig{
//	    ConfidenceThreshold: 0.5,
//	})
//	segments, err := mgr.ProcessAudio(ctx, meetingID, chunk)
package transcription
