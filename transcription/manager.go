package transcription

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/meetscribe/errors"
	"github.com/kbukum/meetscribe/fanout"
	"github.com/kbukum/meetscribe/logger"
	"github.com/kbukum/meetscribe/meeting"
	"github.com/kbukum/meetscribe/observability"
	"github.com/kbukum/meetscribe/pipeline"
)

// Lifecycle is the slice of the meeting lifecycle manager the session
// manager needs: state lookup and the DETECTED to RECORDING transition.
type Lifecycle interface {
	MeetingState(id string) (meeting.Meeting, error)
	BeginRecording(ctx context.Context, id string) error
}

// Manager owns per-meeting transcription sessions. Ingestion for different
// meetings runs in parallel; ingestion for the same meeting is serialized so
// segment numbers are assigned without gaps or duplicates.
type Manager struct {
	repo      SegmentRepository
	lifecycle Lifecycle
	metrics   *observability.Metrics
	log       *logger.Logger

	streamBufferSize int

	mu       sync.RWMutex
	sessions map[string]*session
	hubs     map[string]*fanout.Hub[Segment]
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLifecycle attaches the meeting lifecycle manager so starting a session
// drives the owning meeting to RECORDING.
func WithLifecycle(lc Lifecycle) ManagerOption {
	return func(m *Manager) { m.lifecycle = lc }
}

// WithMetrics attaches metric instruments.
func WithMetrics(metrics *observability.Metrics) ManagerOption {
	return func(m *Manager) { m.metrics = metrics }
}

// WithStreamBufferSize sets the per-subscriber live stream buffer.
func WithStreamBufferSize(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.streamBufferSize = n
		}
	}
}

// NewManager creates a transcription session manager.
func NewManager(repo SegmentRepository, opts ...ManagerOption) *Manager {
	m := &Manager{
		repo:             repo,
		log:              logger.Get("transcription"),
		streamBufferSize: fanout.DefaultBufferSize,
		sessions:         make(map[string]*session),
		hubs:             make(map[string]*fanout.Hub[Segment]),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// StartTranscription creates an ACTIVE session for the meeting and drives the
// meeting to RECORDING if it was DETECTED. Fails with AlreadyActive if a
// session for the meeting is already ACTIVE. Restarting after a stop creates
// a fresh session whose segment numbering resumes after the last persisted
// segment.
func (m *Manager) StartTranscription(ctx context.Context, meetingID string, cfg SessionConfig) (SessionInfo, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return SessionInfo{}, err
	}

	if m.lifecycle != nil {
		state, err := m.lifecycle.MeetingState(meetingID)
		if err != nil {
			return SessionInfo{}, err
		}
		switch state.Status {
		case meeting.StatusDetected:
			if err := m.lifecycle.BeginRecording(ctx, meetingID); err != nil {
				return SessionInfo{}, err
			}
		case meeting.StatusRecording:
			// Already recording, e.g. restart after a stopped session.
		default:
			return SessionInfo{}, errors.InvalidState("meeting", string(state.Status), "start transcription")
		}
	}

	persisted, err := m.repo.CountSegments(ctx, meetingID)
	if err != nil {
		return SessionInfo{}, errors.Repository("count segments", err).WithMeeting(meetingID)
	}

	m.mu.Lock()
	if existing, ok := m.sessions[meetingID]; ok && existing.snapshot().Status == SessionActive {
		m.mu.Unlock()
		return SessionInfo{}, errors.AlreadyActive(meetingID)
	}
	s := newSession(meetingID, cfg, persisted+1)
	m.sessions[meetingID] = s
	m.hubs[meetingID] = fanout.New[Segment](
		fanout.WithBufferSize(m.streamBufferSize),
		fanout.WithName("segment-stream"),
	)
	m.mu.Unlock()

	m.log.Info("transcription started", map[string]interface{}{
		logger.FieldMeetingID: meetingID,
		"language":            cfg.Language,
		"threshold":           cfg.ConfidenceThreshold,
		"diarization":         cfg.EnableDiarization,
	})
	return s.snapshot(), nil
}

// StopTranscription destroys the meeting's session and terminates its live
// stream; subscriber channels are closed. Fails with NotFound if no session
// exists.
func (m *Manager) StopTranscription(ctx context.Context, meetingID string) error {
	m.mu.Lock()
	s, ok := m.sessions[meetingID]
	hub := m.hubs[meetingID]
	delete(m.sessions, meetingID)
	delete(m.hubs, meetingID)
	m.mu.Unlock()

	if !ok {
		return errors.NotFound("transcription session", meetingID)
	}

	s.mu.Lock()
	s.status = SessionStopped
	s.mu.Unlock()

	if hub != nil {
		hub.Close()
	}
	m.log.Info("transcription stopped", logger.MeetingFields(meetingID, "stop"))
	return nil
}

// ProcessAudio ingests one chunk of decoded text candidates for a meeting.
// Candidates meeting the session threshold become segments with consecutive
// segment numbers, are persisted, published to the live stream, and returned.
// Below-threshold candidates follow the session's ThresholdPolicy: dropped
// and counted, or kept as non-final segments.
//
// Calls for the same meeting are serialized on the session; calls for
// different meetings proceed in parallel.
func (m *Manager) ProcessAudio(ctx context.Context, meetingID string, chunk AudioChunk) ([]Segment, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanProcessAudio)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrMeetingID, meetingID)

	m.mu.RLock()
	s, ok := m.sessions[meetingID]
	hub := m.hubs[meetingID]
	m.mu.RUnlock()
	if !ok {
		return nil, errors.NotFound("transcription session", meetingID)
	}

	for _, cand := range chunk.Candidates {
		if cand.StartOffsetMs >= cand.EndOffsetMs {
			return nil, errors.InvalidInput("candidate", "start offset must precede end offset")
		}
		if cand.Confidence < 0 || cand.Confidence > 1 {
			return nil, errors.InvalidInput("candidate", "confidence must be within [0, 1]")
		}
	}

	// Critical section: segment-number assignment, persistence, and stream
	// publication happen under the session lock so concurrent producers for
	// the same meeting observe a single writer.
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != SessionActive {
		return nil, errors.InvalidState("transcription session", string(s.status), "process audio")
	}

	var (
		accepted []Segment
		dropped  int
		now      = time.Now()
	)
	for _, cand := range chunk.Candidates {
		belowThreshold := cand.Confidence < s.cfg.ConfidenceThreshold
		if belowThreshold && s.cfg.ThresholdPolicy == ThresholdDrop {
			dropped++
			continue
		}

		seg := Segment{
			ID:            uuid.NewString(),
			MeetingID:     meetingID,
			StartOffsetMs: cand.StartOffsetMs,
			EndOffsetMs:   cand.EndOffsetMs,
			Text:          cand.Text,
			Confidence:    cand.Confidence,
			SegmentNumber: s.nextSegmentNumber,
			SpeakerID:     cand.SpeakerID,
			IsFinal:       cand.IsFinal && !belowThreshold,
			Language:      cand.Language,
			CreatedAt:     now,
		}
		if seg.Language == "" {
			seg.Language = s.cfg.Language
		}
		if !s.cfg.EnableDiarization {
			seg.SpeakerID = ""
		}

		if err := m.repo.SaveSegment(ctx, seg); err != nil {
			// Numbering only advances on successful persistence, so a
			// failed save leaves no gap behind.
			m.metrics.RecordSegmentsIngested(ctx, len(accepted))
			m.metrics.RecordCandidatesDropped(ctx, dropped)
			s.droppedCandidates += int64(dropped)
			return accepted, errors.Repository("save segment", err).WithMeeting(meetingID)
		}
		s.nextSegmentNumber++
		hub.Publish(seg)
		accepted = append(accepted, seg)
	}

	s.droppedCandidates += int64(dropped)
	m.metrics.RecordSegmentsIngested(ctx, len(accepted))
	m.metrics.RecordCandidatesDropped(ctx, dropped)
	observability.SetSpanAttribute(ctx, observability.AttrSegmentCount, len(accepted))

	return accepted, nil
}

// Stream returns the live segment hub for an active session. Subscribers
// receive only segments processed after they subscribe.
func (m *Manager) Stream(meetingID string) (*fanout.Hub[Segment], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	hub, ok := m.hubs[meetingID]
	if !ok {
		return nil, errors.NotFound("transcription session", meetingID)
	}
	return hub, nil
}

// Segments returns a lazy, restartable sequence of all persisted segments for
// the meeting in segment-number order. Each pull reads the repository anew.
func (m *Manager) Segments(meetingID string) *pipeline.Pipeline[Segment] {
	return pipeline.FromFunc(func(ctx context.Context) pipeline.Iterator[Segment] {
		return &segmentIter{load: func(ctx context.Context) ([]Segment, error) {
			return m.repo.ListSegments(ctx, meetingID)
		}}
	})
}

// Session returns a snapshot of the meeting's session control state.
func (m *Manager) Session(meetingID string) (SessionInfo, error) {
	m.mu.RLock()
	s, ok := m.sessions[meetingID]
	m.mu.RUnlock()
	if !ok {
		return SessionInfo{}, errors.NotFound("transcription session", meetingID)
	}
	return s.snapshot(), nil
}

// SetLanguage changes the session language. Applies to audio processed after
// the call; already-emitted segments are never rewritten.
func (m *Manager) SetLanguage(meetingID, language string) error {
	if strings.TrimSpace(language) == "" {
		return errors.InvalidInput("language", "must not be empty")
	}
	return m.updateSession(meetingID, func(cfg *SessionConfig) {
		cfg.Language = language
	})
}

// SetSpeakerDiarization toggles diarization for subsequently processed audio.
func (m *Manager) SetSpeakerDiarization(meetingID string, enabled bool) error {
	return m.updateSession(meetingID, func(cfg *SessionConfig) {
		cfg.EnableDiarization = enabled
	})
}

// SetConfidenceThreshold changes the threshold for subsequently processed
// audio. Already-emitted segments are never re-scored.
func (m *Manager) SetConfidenceThreshold(meetingID string, threshold float64) error {
	if threshold < 0 || threshold > 1 {
		return errors.InvalidInput("confidence_threshold", "must be within [0, 1]")
	}
	return m.updateSession(meetingID, func(cfg *SessionConfig) {
		cfg.ConfidenceThreshold = threshold
	})
}

// Stats aggregates the meeting's persisted transcript. Dropped-candidate
// counts come from the live session and reset when a session is destroyed.
func (m *Manager) Stats(ctx context.Context, meetingID string) (Stats, error) {
	segs, err := m.repo.ListSegments(ctx, meetingID)
	if err != nil {
		return Stats{}, errors.Repository("list segments", err).WithMeeting(meetingID)
	}

	stats := Stats{MeetingID: meetingID, SegmentCount: len(segs)}

	m.mu.RLock()
	if s, ok := m.sessions[meetingID]; ok {
		stats.DroppedCandidates = s.snapshot().DroppedCandidates
	}
	m.mu.RUnlock()

	if len(segs) == 0 {
		return stats, nil
	}

	var confidenceSum float64
	speakers := make(map[string]struct{})
	languages := make(map[string]struct{})
	first, last := segs[0].CreatedAt, segs[0].CreatedAt
	for _, seg := range segs {
		stats.WordCount += seg.WordCount()
		confidenceSum += seg.Confidence
		if seg.SpeakerID != "" {
			speakers[seg.SpeakerID] = struct{}{}
		}
		if seg.Language != "" {
			languages[seg.Language] = struct{}{}
		}
		if seg.CreatedAt.Before(first) {
			first = seg.CreatedAt
		}
		if seg.CreatedAt.After(last) {
			last = seg.CreatedAt
		}
	}
	stats.AverageConfidence = confidenceSum / float64(len(segs))
	stats.SpeakerCount = len(speakers)
	stats.FirstSegmentAt = &first
	stats.LastSegmentAt = &last
	for lang := range languages {
		stats.Languages = append(stats.Languages, lang)
	}
	sort.Strings(stats.Languages)

	return stats, nil
}

func (m *Manager) updateSession(meetingID string, mutate func(*SessionConfig)) error {
	m.mu.RLock()
	s, ok := m.sessions[meetingID]
	m.mu.RUnlock()
	if !ok {
		return errors.NotFound("transcription session", meetingID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != SessionActive {
		return errors.InvalidState("transcription session", string(s.status), "update config")
	}
	mutate(&s.cfg)
	return nil
}

func countWords(text string) int {
	return len(strings.Fields(text))
}

// segmentIter loads the repository snapshot on first pull.
type segmentIter struct {
	load   func(ctx context.Context) ([]Segment, error)
	items  []Segment
	loaded bool
	index  int
}

func (it *segmentIter) Next(ctx context.Context) (Segment, bool, error) {
	if !it.loaded {
		items, err := it.load(ctx)
		if err != nil {
			return Segment{}, false, err
		}
		it.items = items
		it.loaded = true
	}
	if it.index >= len(it.items) {
		return Segment{}, false, nil
	}
	seg := it.items[it.index]
	it.index++
	return seg, true, nil
}

func (it *segmentIter) Close() error { return nil }
