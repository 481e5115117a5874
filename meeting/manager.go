package meeting

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/meetscribe/detection"
	"github.com/kbukum/meetscribe/errors"
	"github.com/kbukum/meetscribe/fanout"
	"github.com/kbukum/meetscribe/logger"
	"github.com/kbukum/meetscribe/observability"
	"github.com/kbukum/meetscribe/pipeline"
)

// Config holds lifecycle manager configuration.
type Config struct {
	// ScanInterval is the period of the detection scan loop.
	ScanInterval time.Duration `yaml:"scan_interval" mapstructure:"scan_interval"`
	// EventBufferSize is the per-subscriber event channel capacity.
	EventBufferSize int `yaml:"event_buffer_size" mapstructure:"event_buffer_size"`
}

// ApplyDefaults applies default values.
func (c *Config) ApplyDefaults() {
	if c.ScanInterval <= 0 {
		c.ScanInterval = 2 * time.Second
	}
	if c.EventBufferSize <= 0 {
		c.EventBufferSize = fanout.DefaultBufferSize
	}
}

// scanSource pairs a detection source with its per-source scheduling state.
// cycleMu serializes cycles: cycle N+1 never starts before cycle N completes
// for the same source. trigger has capacity 1 so manual scans coalesce with
// the next cycle instead of stacking.
type scanSource struct {
	src     detection.Source
	cycleMu sync.Mutex
	trigger chan struct{}
}

// Manager owns meeting lifecycle state. It runs one serialized scan loop per
// detection source, diffs observed instances against tracked meetings, and
// emits exactly one Event per state transition.
type Manager struct {
	cfg  Config
	repo Repository
	hub  *fanout.Hub[Event]
	log  *logger.Logger

	mu        sync.RWMutex
	meetings  map[string]*Meeting
	byProcess map[string]string // "source/processID" -> meeting id, non-terminal only
	sources   map[string]*scanSource

	runMu   sync.Mutex
	running bool
	loopCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewManager creates a lifecycle manager.
func NewManager(cfg Config, repo Repository) *Manager {
	cfg.ApplyDefaults()
	return &Manager{
		cfg:       cfg,
		repo:      repo,
		hub:       fanout.New[Event](fanout.WithBufferSize(cfg.EventBufferSize), fanout.WithName("meeting-events")),
		log:       logger.Get("lifecycle"),
		meetings:  make(map[string]*Meeting),
		byProcess: make(map[string]string),
		sources:   make(map[string]*scanSource),
	}
}

// Events returns the hub carrying lifecycle events. Subscribers joining late
// receive only events published after they subscribe.
func (m *Manager) Events() *fanout.Hub[Event] {
	return m.hub
}

// AddSource registers a detection source. If monitoring is already running
// the source's scan loop starts immediately.
func (m *Manager) AddSource(src detection.Source) error {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	m.mu.Lock()
	if _, exists := m.sources[src.Name()]; exists {
		m.mu.Unlock()
		return errors.Validation(fmt.Sprintf("detection source %q already registered", src.Name()))
	}
	ss := &scanSource{src: src, trigger: make(chan struct{}, 1)}
	m.sources[src.Name()] = ss
	m.mu.Unlock()

	if m.running {
		m.startLoop(ss)
	}
	return nil
}

// StartMonitoring starts the periodic scan loops. Idempotent: starting while
// already running is a no-op.
func (m *Manager) StartMonitoring(ctx context.Context) error {
	m.runMu.Lock()
	defer m.runMu.Unlock()
	if m.running {
		return nil
	}

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	m.cancel = cancel
	m.running = true

	m.mu.RLock()
	sources := make([]*scanSource, 0, len(m.sources))
	for _, ss := range m.sources {
		sources = append(sources, ss)
	}
	m.mu.RUnlock()

	m.loopCtx = loopCtx
	for _, ss := range sources {
		m.startLoop(ss)
	}

	m.log.Info("monitoring started", map[string]interface{}{
		"sources":       len(sources),
		"scan_interval": m.cfg.ScanInterval.String(),
	})
	return nil
}

// StopMonitoring stops the scan loops and waits for in-flight cycles.
// Idempotent: stopping while not running is a no-op.
func (m *Manager) StopMonitoring() error {
	m.runMu.Lock()
	defer m.runMu.Unlock()
	if !m.running {
		return nil
	}
	m.cancel()
	m.wg.Wait()
	m.running = false
	m.log.Info("monitoring stopped")
	return nil
}

// TriggerDetectionScan forces one immediate scan cycle for the named source.
// While monitoring runs, the request is coalesced with the current or next
// cycle rather than stacking concurrent scans; while stopped, the cycle runs
// synchronously.
func (m *Manager) TriggerDetectionScan(ctx context.Context, sourceName string) error {
	m.mu.RLock()
	ss, ok := m.sources[sourceName]
	m.mu.RUnlock()
	if !ok {
		return errors.NotFound("detection source", sourceName)
	}

	m.runMu.Lock()
	running := m.running
	m.runMu.Unlock()

	if running {
		select {
		case ss.trigger <- struct{}{}:
		default:
			// A trigger is already pending; coalesce.
		}
		return nil
	}

	m.scan(ctx, ss)
	return nil
}

// ActiveMeetings returns a lazy, restartable sequence of meeting snapshots.
// Each pull takes a fresh point-in-time copy; mutations after a pull do not
// retroactively change yielded values.
func (m *Manager) ActiveMeetings() *pipeline.Pipeline[Meeting] {
	return pipeline.FromFunc(func(ctx context.Context) pipeline.Iterator[Meeting] {
		return pipeline.FromSlice(m.snapshot()).Iter(ctx)
	})
}

// MeetingState returns the current snapshot of one meeting.
func (m *Manager) MeetingState(id string) (Meeting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mt, ok := m.meetings[id]
	if !ok {
		return Meeting{}, errors.NotFound("meeting", id)
	}
	return *mt, nil
}

// BeginRecording transitions a DETECTED meeting to RECORDING. Called by the
// transcription session manager when a session starts.
func (m *Manager) BeginRecording(ctx context.Context, id string) error {
	return m.transition(ctx, id, StatusRecording)
}

// Complete transitions a PROCESSING meeting to COMPLETED once cleanup is
// done.
func (m *Manager) Complete(ctx context.Context, id string) error {
	return m.transition(ctx, id, StatusCompleted)
}

// Degrade transitions a meeting to ERROR from any non-terminal state.
func (m *Manager) Degrade(ctx context.Context, id string, cause error) error {
	m.log.WithError(cause).Warn("meeting degraded", logger.MeetingFields(id, "degrade"))
	return m.transition(ctx, id, StatusError)
}

func (m *Manager) startLoop(ss *scanSource) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.runSource(m.loopCtx, ss)
	}()
}

func (m *Manager) runSource(ctx context.Context, ss *scanSource) {
	ticker := time.NewTicker(m.cfg.ScanInterval)
	defer ticker.Stop()

	m.scan(ctx, ss)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.scan(ctx, ss)
		case <-ss.trigger:
			m.scan(ctx, ss)
		}
	}
}

// scan runs one detection cycle for a source. Cycles for the same source are
// mutually exclusive; cycles for different sources run independently.
func (m *Manager) scan(ctx context.Context, ss *scanSource) {
	ss.cycleMu.Lock()
	defer ss.cycleMu.Unlock()

	ctx, span := observability.StartSpan(ctx, observability.SpanScanCycle)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrScanSource, ss.src.Name())

	instances, err := ss.src.Scan(ctx)
	if err != nil {
		// A failed probe degrades this source's tracked meetings; other
		// sources and the loop itself keep going, retrying on schedule.
		m.log.WithError(err).Warn("scan cycle failed", map[string]interface{}{
			logger.FieldScanSource: ss.src.Name(),
		})
		observability.SetSpanError(ctx, err)
		m.degradeSource(ctx, ss.src.Name())
		return
	}

	m.diff(ctx, ss.src.Name(), instances)
}

// diff reconciles one scan's observed instances with tracked meetings.
func (m *Manager) diff(ctx context.Context, source string, instances []detection.Instance) {
	now := time.Now()
	var events []Event
	var updated []Meeting

	m.mu.Lock()
	seen := make(map[string]bool, len(instances))
	for _, inst := range instances {
		key := source + "/" + inst.ProcessID
		seen[key] = true

		if id, tracked := m.byProcess[key]; tracked {
			mt := m.meetings[id]
			if inst.ParticipantCount != mt.ParticipantCount {
				mt.ParticipantCount = inst.ParticipantCount
				mt.LastUpdated = now
				events = append(events, Event{
					MeetingID:        mt.ID,
					Type:             EventParticipantChanged,
					Timestamp:        now,
					ProcessID:        mt.ProcessID,
					WindowTitle:      inst.WindowTitle,
					ParticipantCount: inst.ParticipantCount,
				})
				updated = append(updated, *mt)
			}
			continue
		}

		mt := &Meeting{
			ID:               uuid.NewString(),
			Title:            inst.WindowTitle,
			Status:           StatusDetected,
			StartTime:        now,
			ProcessID:        inst.ProcessID,
			ParticipantCount: inst.ParticipantCount,
			ScanSource:       source,
			LastUpdated:      now,
		}
		m.meetings[mt.ID] = mt
		m.byProcess[key] = mt.ID
		events = append(events, Event{
			MeetingID:        mt.ID,
			Type:             EventMeetingStarted,
			Timestamp:        now,
			ProcessID:        mt.ProcessID,
			WindowTitle:      mt.Title,
			Status:           StatusDetected,
			ParticipantCount: mt.ParticipantCount,
		})
		updated = append(updated, *mt)
	}

	// Instances no longer observed have ended.
	for key, id := range m.byProcess {
		if seen[key] {
			continue
		}
		mt := m.meetings[id]
		if mt.ScanSource != source {
			continue
		}
		if mt.Status != StatusDetected && mt.Status != StatusRecording {
			continue
		}
		end := now
		mt.Status = StatusProcessing
		mt.EndTime = &end
		mt.LastUpdated = now
		delete(m.byProcess, key)
		events = append(events, Event{
			MeetingID:   mt.ID,
			Type:        EventMeetingEnded,
			Timestamp:   now,
			ProcessID:   mt.ProcessID,
			WindowTitle: mt.Title,
			Status:      StatusProcessing,
		})
		updated = append(updated, *mt)
	}
	m.mu.Unlock()

	for _, mt := range updated {
		m.persist(ctx, mt)
	}
	// Emission must never fail the cycle; Publish is non-blocking and a
	// hub without subscribers simply drops the event.
	for _, ev := range events {
		m.hub.Publish(ev)
	}
}

// degradeSource moves every non-terminal meeting tracked from source to
// ERROR.
func (m *Manager) degradeSource(ctx context.Context, source string) {
	now := time.Now()
	var events []Event
	var updated []Meeting

	m.mu.Lock()
	for key, id := range m.byProcess {
		mt := m.meetings[id]
		if mt.ScanSource != source || mt.Status.Terminal() {
			continue
		}
		mt.Status = StatusError
		mt.LastUpdated = now
		delete(m.byProcess, key)
		events = append(events, Event{
			MeetingID:   mt.ID,
			Type:        EventStatusChanged,
			Timestamp:   now,
			ProcessID:   mt.ProcessID,
			WindowTitle: mt.Title,
			Status:      StatusError,
		})
		updated = append(updated, *mt)
	}
	m.mu.Unlock()

	for _, mt := range updated {
		m.persist(ctx, mt)
	}
	for _, ev := range events {
		m.hub.Publish(ev)
	}
}

func (m *Manager) transition(ctx context.Context, id string, next Status) error {
	now := time.Now()

	m.mu.Lock()
	mt, ok := m.meetings[id]
	if !ok {
		m.mu.Unlock()
		return errors.NotFound("meeting", id)
	}
	if !mt.Status.CanTransitionTo(next) {
		from := mt.Status
		m.mu.Unlock()
		return errors.InvalidState("meeting", string(from), "transition to "+string(next))
	}
	mt.Status = next
	mt.LastUpdated = now
	if next.Terminal() {
		delete(m.byProcess, mt.ScanSource+"/"+mt.ProcessID)
	}
	snapshot := *mt
	m.mu.Unlock()

	m.persist(ctx, snapshot)
	m.hub.Publish(Event{
		MeetingID:   snapshot.ID,
		Type:        EventStatusChanged,
		Timestamp:   now,
		ProcessID:   snapshot.ProcessID,
		WindowTitle: snapshot.Title,
		Status:      next,
	})
	return nil
}

func (m *Manager) persist(ctx context.Context, mt Meeting) {
	if m.repo == nil {
		return
	}
	if err := m.repo.SaveMeeting(ctx, mt); err != nil {
		m.log.WithError(err).Error("persist meeting failed", logger.MeetingFields(mt.ID, "save"))
	}
}

func (m *Manager) snapshot() []Meeting {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Meeting, 0, len(m.meetings))
	for _, mt := range m.meetings {
		out = append(out, *mt)
	}
	return out
}
