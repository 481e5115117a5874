package transcription_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/meetscribe/detection"
	"github.com/kbukum/meetscribe/detection/static"
	"github.com/kbukum/meetscribe/errors"
	"github.com/kbukum/meetscribe/meeting"
	"github.com/kbukum/meetscribe/pipeline"
	"github.com/kbukum/meetscribe/repository/memory"
	"github.com/kbukum/meetscribe/transcription"
)

type fixture struct {
	repo      *memory.Repository
	lifecycle *meeting.Manager
	mgr       *transcription.Manager
	meetingID string
}

// newFixture detects one meeting via a static source and returns a session
// manager wired to the lifecycle.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	repo := memory.New()
	lifecycle := meeting.NewManager(meeting.Config{ScanInterval: time.Hour}, repo)
	src := static.NewSource("static")
	require.NoError(t, lifecycle.AddSource(src))

	src.Add(detection.Instance{ProcessID: "100", WindowTitle: "Standup", ParticipantCount: 3})
	require.NoError(t, lifecycle.TriggerDetectionScan(ctx, "static"))

	active, err := pipeline.Collect(ctx, lifecycle.ActiveMeetings())
	require.NoError(t, err)
	require.Len(t, active, 1)

	return &fixture{
		repo:      repo,
		lifecycle: lifecycle,
		mgr:       transcription.NewManager(repo, transcription.WithLifecycle(lifecycle)),
		meetingID: active[0].ID,
	}
}

func chunk(candidates ...transcription.Candidate) transcription.AudioChunk {
	return transcription.AudioChunk{Candidates: candidates}
}

func candidate(text string, confidence float64, startMs int64) transcription.Candidate {
	return transcription.Candidate{
		Text:          text,
		Confidence:    confidence,
		StartOffsetMs: startMs,
		EndOffsetMs:   startMs + 900,
		IsFinal:       true,
	}
}

func TestStartTranscriptionDrivesMeetingToRecording(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	info, err := f.mgr.StartTranscription(ctx, f.meetingID, transcription.SessionConfig{})
	require.NoError(t, err)
	assert.Equal(t, transcription.SessionActive, info.Status)
	assert.Equal(t, 1, info.NextSegmentNumber)
	assert.Equal(t, "en", info.Config.Language)
	assert.Equal(t, transcription.ThresholdDrop, info.Config.ThresholdPolicy)

	state, err := f.lifecycle.MeetingState(f.meetingID)
	require.NoError(t, err)
	assert.Equal(t, meeting.StatusRecording, state.Status)
}

func TestStartTranscriptionAlreadyActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.mgr.StartTranscription(ctx, f.meetingID, transcription.SessionConfig{})
	require.NoError(t, err)

	_, err = f.mgr.StartTranscription(ctx, f.meetingID, transcription.SessionConfig{})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeAlreadyActive))
}

func TestStartTranscriptionUnknownMeeting(t *testing.T) {
	f := newFixture(t)
	_, err := f.mgr.StartTranscription(context.Background(), "missing", transcription.SessionConfig{})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestStartTranscriptionInvalidConfig(t *testing.T) {
	f := newFixture(t)
	_, err := f.mgr.StartTranscription(context.Background(), f.meetingID, transcription.SessionConfig{
		ConfidenceThreshold: 1.5,
	})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
}

func TestProcessAudioThresholdFiltering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.mgr.StartTranscription(ctx, f.meetingID, transcription.SessionConfig{
		ConfidenceThreshold: 0.5,
	})
	require.NoError(t, err)

	segs, err := f.mgr.ProcessAudio(ctx, f.meetingID, chunk(candidate("hello", 0.9, 0)))
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, 1, segs[0].SegmentNumber)
	assert.Equal(t, "hello", segs[0].Text)

	// Below-threshold candidate is dropped, counted, not stored.
	segs, err = f.mgr.ProcessAudio(ctx, f.meetingID, chunk(candidate("noise", 0.3, 1000)))
	require.NoError(t, err)
	assert.Empty(t, segs)

	stats, err := f.mgr.Stats(ctx, f.meetingID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.SegmentCount)
	assert.Equal(t, int64(1), stats.DroppedCandidates)
}

func TestProcessAudioKeepPolicy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.mgr.StartTranscription(ctx, f.meetingID, transcription.SessionConfig{
		ConfidenceThreshold: 0.5,
		ThresholdPolicy:     transcription.ThresholdKeep,
	})
	require.NoError(t, err)

	segs, err := f.mgr.ProcessAudio(ctx, f.meetingID, chunk(candidate("uncertain", 0.3, 0)))
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.False(t, segs[0].IsFinal, "kept below-threshold segments must be non-final")

	stats, err := f.mgr.Stats(ctx, f.meetingID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.SegmentCount)
	assert.Zero(t, stats.DroppedCandidates)
}

func TestProcessAudioWithoutSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.mgr.ProcessAudio(context.Background(), f.meetingID, chunk(candidate("x", 0.9, 0)))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestProcessAudioRejectsInvalidOffsets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.mgr.StartTranscription(ctx, f.meetingID, transcription.SessionConfig{})
	require.NoError(t, err)

	_, err = f.mgr.ProcessAudio(ctx, f.meetingID, chunk(transcription.Candidate{
		Text: "bad", Confidence: 0.9, StartOffsetMs: 500, EndOffsetMs: 500,
	}))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
}

func TestConcurrentProcessAudioNoGapsNoDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.mgr.StartTranscription(ctx, f.meetingID, transcription.SessionConfig{})
	require.NoError(t, err)

	const producers = 8
	const perProducer = 50

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				offset := int64(p*perProducer+i) * 1000
				_, err := f.mgr.ProcessAudio(ctx, f.meetingID, chunk(
					candidate(fmt.Sprintf("p%d-%d", p, i), 0.9, offset),
				))
				if err != nil {
					t.Error(err)
					return
				}
			}
		}(p)
	}
	wg.Wait()

	segs, err := pipeline.Collect(ctx, f.mgr.Segments(f.meetingID))
	require.NoError(t, err)
	require.Len(t, segs, producers*perProducer)
	for i, seg := range segs {
		require.Equal(t, i+1, seg.SegmentNumber, "segment numbers must be sequential with no gaps")
	}
}

func TestStreamDeliversLiveSegmentsOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.mgr.StartTranscription(ctx, f.meetingID, transcription.SessionConfig{})
	require.NoError(t, err)

	// Segment processed before subscribing is not replayed.
	_, err = f.mgr.ProcessAudio(ctx, f.meetingID, chunk(candidate("before", 0.9, 0)))
	require.NoError(t, err)

	hub, err := f.mgr.Stream(f.meetingID)
	require.NoError(t, err)
	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	_, err = f.mgr.ProcessAudio(ctx, f.meetingID, chunk(candidate("after", 0.9, 1000)))
	require.NoError(t, err)

	select {
	case seg := <-sub.C():
		assert.Equal(t, "after", seg.Text)
		assert.Equal(t, 2, seg.SegmentNumber)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for live segment")
	}
}

func TestStopTranscriptionClosesStream(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.mgr.StartTranscription(ctx, f.meetingID, transcription.SessionConfig{})
	require.NoError(t, err)

	hub, err := f.mgr.Stream(f.meetingID)
	require.NoError(t, err)
	sub := hub.Subscribe()

	require.NoError(t, f.mgr.StopTranscription(ctx, f.meetingID))

	select {
	case _, ok := <-sub.C():
		assert.False(t, ok, "stream channel must be closed after stop")
	case <-time.After(2 * time.Second):
		t.Fatal("stream channel not closed after stop")
	}

	err = f.mgr.StopTranscription(ctx, f.meetingID)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestRestartResumesSegmentNumbering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.mgr.StartTranscription(ctx, f.meetingID, transcription.SessionConfig{})
	require.NoError(t, err)
	_, err = f.mgr.ProcessAudio(ctx, f.meetingID, chunk(
		candidate("one", 0.9, 0),
		candidate("two", 0.9, 1000),
	))
	require.NoError(t, err)
	require.NoError(t, f.mgr.StopTranscription(ctx, f.meetingID))

	// A fresh session resumes numbering after the persisted transcript, so
	// the per-meeting sequence stays gapless across restarts.
	_, err = f.mgr.StartTranscription(ctx, f.meetingID, transcription.SessionConfig{})
	require.NoError(t, err)
	info, err := f.mgr.Session(f.meetingID)
	require.NoError(t, err)
	assert.Equal(t, 3, info.NextSegmentNumber)

	segs, err := f.mgr.ProcessAudio(ctx, f.meetingID, chunk(candidate("three", 0.9, 2000)))
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, 3, segs[0].SegmentNumber)
}

func TestLiveConfigChangesApplyForward(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.mgr.StartTranscription(ctx, f.meetingID, transcription.SessionConfig{
		ConfidenceThreshold: 0.2,
		EnableDiarization:   true,
	})
	require.NoError(t, err)

	segs, err := f.mgr.ProcessAudio(ctx, f.meetingID, chunk(transcription.Candidate{
		Text: "speaker a", Confidence: 0.4, SpeakerID: "spk-1",
		StartOffsetMs: 0, EndOffsetMs: 900, IsFinal: true,
	}))
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, "spk-1", segs[0].SpeakerID)

	require.NoError(t, f.mgr.SetConfidenceThreshold(f.meetingID, 0.5))
	require.NoError(t, f.mgr.SetSpeakerDiarization(f.meetingID, false))
	require.NoError(t, f.mgr.SetLanguage(f.meetingID, "de"))

	// The 0.4-confidence candidate that passed before is now dropped.
	segs, err = f.mgr.ProcessAudio(ctx, f.meetingID, chunk(candidate("quiet", 0.4, 1000)))
	require.NoError(t, err)
	assert.Empty(t, segs)

	segs, err = f.mgr.ProcessAudio(ctx, f.meetingID, chunk(transcription.Candidate{
		Text: "laut", Confidence: 0.9, SpeakerID: "spk-2",
		StartOffsetMs: 2000, EndOffsetMs: 2900, IsFinal: true,
	}))
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Empty(t, segs[0].SpeakerID, "diarization disabled strips speaker attribution")
	assert.Equal(t, "de", segs[0].Language)

	// Already-emitted segments are never re-scored.
	all, err := pipeline.Collect(ctx, f.mgr.Segments(f.meetingID))
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "speaker a", all[0].Text)
	assert.Equal(t, "spk-1", all[0].SpeakerID)

	err = f.mgr.SetConfidenceThreshold(f.meetingID, 2.0)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
}

func TestStatsAggregation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.mgr.StartTranscription(ctx, f.meetingID, transcription.SessionConfig{
		EnableDiarization: true,
	})
	require.NoError(t, err)

	_, err = f.mgr.ProcessAudio(ctx, f.meetingID, chunk(
		transcription.Candidate{Text: "hello there", Confidence: 0.8, SpeakerID: "a", Language: "en", StartOffsetMs: 0, EndOffsetMs: 900, IsFinal: true},
		transcription.Candidate{Text: "guten tag", Confidence: 0.6, SpeakerID: "b", Language: "de", StartOffsetMs: 1000, EndOffsetMs: 1900, IsFinal: true},
	))
	require.NoError(t, err)

	stats, err := f.mgr.Stats(ctx, f.meetingID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.SegmentCount)
	assert.Equal(t, 4, stats.WordCount)
	assert.InDelta(t, 0.7, stats.AverageConfidence, 1e-9)
	assert.Equal(t, 2, stats.SpeakerCount)
	assert.Equal(t, []string{"de", "en"}, stats.Languages)
	require.NotNil(t, stats.FirstSegmentAt)
	require.NotNil(t, stats.LastSegmentAt)
}

func TestSegmentsSequenceIsRestartable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.mgr.StartTranscription(ctx, f.meetingID, transcription.SessionConfig{})
	require.NoError(t, err)

	seq := f.mgr.Segments(f.meetingID)
	first, err := pipeline.Collect(ctx, seq)
	require.NoError(t, err)
	assert.Empty(t, first)

	_, err = f.mgr.ProcessAudio(ctx, f.meetingID, chunk(candidate("later", 0.9, 0)))
	require.NoError(t, err)

	second, err := pipeline.Collect(ctx, seq)
	require.NoError(t, err)
	assert.Len(t, second, 1)
}
