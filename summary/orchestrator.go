package summary

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/meetscribe/errors"
	"github.com/kbukum/meetscribe/llm"
	"github.com/kbukum/meetscribe/logger"
	"github.com/kbukum/meetscribe/observability"
	"github.com/kbukum/meetscribe/transcription"
)

const defaultIdleTimeout = 30 * time.Second

// estimateBase is the fixed backend round-trip cost added to every estimate.
const estimateBase = 2 * time.Second

// timePerWord holds the per-type generation cost per transcript word.
// Narrative types are the slowest, extraction types the fastest.
var timePerWord = map[Type]time.Duration{
	TypeFull:        15 * time.Millisecond,
	TypeTechnical:   12 * time.Millisecond,
	TypeExecutive:   10 * time.Millisecond,
	TypeCustom:      10 * time.Millisecond,
	TypeKeyPoints:   8 * time.Millisecond,
	TypeDecisions:   5 * time.Millisecond,
	TypeActionItems: 5 * time.Millisecond,
}

// ProviderSource yields a generation backend per request, so backend selection
// and failover stay outside the orchestrator.
type ProviderSource interface {
	Get(ctx context.Context) (llm.Provider, error)
}

// Orchestrator generates summaries from a meeting's ordered transcript.
// Generation is long-running and never holds locks shared with ingestion or
// detection, so it cannot stall either path.
type Orchestrator struct {
	segments  transcription.SegmentRepository
	summaries Repository
	providers ProviderSource
	metrics   *observability.Metrics
	log       *logger.Logger

	idleTimeout time.Duration
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMetrics attaches metric instruments.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = metrics }
}

// WithIdleTimeout bounds the wait between streamed chunks. A stream that stays
// silent longer than this is terminated with a transient backend error.
func WithIdleTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.idleTimeout = d
		}
	}
}

// NewOrchestrator creates a summary orchestrator.
func NewOrchestrator(segments transcription.SegmentRepository, summaries Repository, providers ProviderSource, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		segments:    segments,
		summaries:   summaries,
		providers:   providers,
		log:         logger.Get("summary"),
		idleTimeout: defaultIdleTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Generate produces and persists one summary of the given type. It fails with
// NoTranscript when the meeting has no segments. For CUSTOM summaries use
// GenerateCustom.
func (o *Orchestrator) Generate(ctx context.Context, meetingID string, t Type) (Summary, error) {
	if t == TypeCustom {
		return Summary{}, errors.InvalidInput("summary_type", "CUSTOM summaries require a prompt, use GenerateCustom")
	}
	return o.generate(ctx, meetingID, t, "", false)
}

// GenerateCustom produces and persists a CUSTOM summary driven by the caller's
// prompt. includeTimestamps prefixes each transcript line with its offset so
// the prompt can reference points in time.
func (o *Orchestrator) GenerateCustom(ctx context.Context, meetingID, prompt string, includeTimestamps bool) (Summary, error) {
	if prompt == "" {
		return Summary{}, errors.InvalidInput("prompt", "must not be empty")
	}
	return o.generate(ctx, meetingID, TypeCustom, prompt, includeTimestamps)
}

func (o *Orchestrator) generate(ctx context.Context, meetingID string, t Type, customPrompt string, includeTimestamps bool) (Summary, error) {
	if !t.Valid() {
		return Summary{}, errors.InvalidInput("summary_type", "unknown summary type "+string(t))
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanGenerateSummary)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrMeetingID, meetingID)
	observability.SetSpanAttribute(ctx, observability.AttrSummaryType, string(t))

	segments, err := o.loadTranscript(ctx, meetingID)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return Summary{}, err
	}

	prompt, err := buildPrompt(t, renderTranscript(segments, includeTimestamps), customPrompt)
	if err != nil {
		return Summary{}, errors.Internal(fmt.Errorf("build summary prompt: %w", err))
	}

	backend, err := o.providers.Get(ctx)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return Summary{}, errors.BackendTransient("generation", err)
	}

	start := time.Now()
	resp, err := backend.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: systemPrompt,
		Messages:     []llm.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		o.metrics.RecordSummary(ctx, string(t), "error", time.Since(start))
		observability.SetSpanError(ctx, err)
		return Summary{}, err
	}
	o.metrics.RecordSummary(ctx, string(t), "ok", time.Since(start))

	s := o.buildRecord(meetingID, t, resp.Content, customPrompt, segments)
	if err := o.summaries.SaveSummary(ctx, s); err != nil {
		return Summary{}, errors.Repository("save summary", err).WithMeeting(meetingID)
	}

	o.log.Info("summary generated", map[string]interface{}{
		logger.FieldMeetingID:   meetingID,
		logger.FieldSummaryType: string(t),
		"word_count":            s.WordCount,
		"duration":              time.Since(start).String(),
	})
	return s, nil
}

// GenerateStream produces a summary as a stream of chunks in arrival order.
// The first chunk has First set; the final chunk has Done set and carries any
// terminal error. A stream idle longer than the configured timeout ends with a
// transient backend error. On success the assembled summary is persisted; a
// cancelled or failed stream persists nothing.
func (o *Orchestrator) GenerateStream(ctx context.Context, meetingID string, t Type) (<-chan Chunk, error) {
	return o.generateStream(ctx, meetingID, t, "", false)
}

// GenerateCustomStream is the streamed variant of GenerateCustom.
func (o *Orchestrator) GenerateCustomStream(ctx context.Context, meetingID, prompt string, includeTimestamps bool) (<-chan Chunk, error) {
	if prompt == "" {
		return nil, errors.InvalidInput("prompt", "must not be empty")
	}
	return o.generateStream(ctx, meetingID, TypeCustom, prompt, includeTimestamps)
}

func (o *Orchestrator) generateStream(ctx context.Context, meetingID string, t Type, customPrompt string, includeTimestamps bool) (<-chan Chunk, error) {
	if !t.Valid() {
		return nil, errors.InvalidInput("summary_type", "unknown summary type "+string(t))
	}
	if t == TypeCustom && customPrompt == "" {
		return nil, errors.InvalidInput("prompt", "must not be empty")
	}

	segments, err := o.loadTranscript(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	prompt, err := buildPrompt(t, renderTranscript(segments, includeTimestamps), customPrompt)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("build summary prompt: %w", err))
	}

	backend, err := o.providers.Get(ctx)
	if err != nil {
		return nil, errors.BackendTransient("generation", err)
	}

	upstream, err := backend.Stream(ctx, llm.CompletionRequest{
		SystemPrompt: systemPrompt,
		Messages:     []llm.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, err
	}

	out := make(chan Chunk)
	go o.relayStream(ctx, meetingID, t, customPrompt, segments, upstream, out)
	return out, nil
}

// relayStream forwards backend chunks to out, enforcing the idle timeout and
// persisting the assembled summary once the backend reports completion.
func (o *Orchestrator) relayStream(ctx context.Context, meetingID string, t Type, customPrompt string, segments []transcription.Segment, upstream <-chan llm.StreamChunk, out chan<- Chunk) {
	defer close(out)

	start := time.Now()
	idle := time.NewTimer(o.idleTimeout)
	defer idle.Stop()

	var content []byte
	first := true

	fail := func(err error) {
		o.metrics.RecordSummary(ctx, string(t), "error", time.Since(start))
		select {
		case out <- Chunk{Done: true, Err: err}:
		case <-ctx.Done():
		}
	}

	for {
		select {
		case <-ctx.Done():
			// Cancelled mid-stream: terminate without persisting. The
			// terminal chunk is best effort since the caller is gone.
			o.metrics.RecordSummary(ctx, string(t), "cancelled", time.Since(start))
			select {
			case out <- Chunk{Done: true, Err: ctx.Err()}:
			default:
			}
			return

		case <-idle.C:
			fail(errors.BackendTimeout("generation", "stream summary"))
			return

		case chunk, ok := <-upstream:
			if !ok {
				// Backend closed without a Done marker.
				fail(errors.BackendTransient("generation", fmt.Errorf("stream ended without completion")))
				return
			}
			if chunk.Err != nil {
				fail(chunk.Err)
				return
			}

			if !idle.Stop() {
				<-idle.C
			}
			idle.Reset(o.idleTimeout)

			if chunk.Content != "" {
				content = append(content, chunk.Content...)
				select {
				case out <- Chunk{Content: chunk.Content, First: first}:
					first = false
				case <-ctx.Done():
					o.metrics.RecordSummary(ctx, string(t), "cancelled", time.Since(start))
					return
				}
			}

			if chunk.Done {
				s := o.buildRecord(meetingID, t, string(content), customPrompt, segments)
				if err := o.summaries.SaveSummary(ctx, s); err != nil {
					fail(errors.Repository("save summary", err).WithMeeting(meetingID))
					return
				}
				o.metrics.RecordSummary(ctx, string(t), "ok", time.Since(start))
				select {
				case out <- Chunk{Done: true}:
				case <-ctx.Done():
				}
				return
			}
		}
	}
}

// GenerateMultiple generates each requested type independently and reports
// every result as it finishes. One type failing never blocks the others; the
// returned channel closes after all results have been delivered.
func (o *Orchestrator) GenerateMultiple(ctx context.Context, meetingID string, types []Type) <-chan Result {
	out := make(chan Result)

	var wg sync.WaitGroup
	for _, t := range types {
		wg.Add(1)
		go func(t Type) {
			defer wg.Done()
			s, err := o.Generate(ctx, meetingID, t)
			select {
			case out <- Result{Type: t, Summary: s, Err: err}:
			case <-ctx.Done():
			}
		}(t)
	}

	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// CanGenerate reports whether the meeting has at least one transcript segment.
func (o *Orchestrator) CanGenerate(ctx context.Context, meetingID string) (bool, error) {
	n, err := o.segments.CountSegments(ctx, meetingID)
	if err != nil {
		return false, errors.Repository("count segments", err).WithMeeting(meetingID)
	}
	return n > 0, nil
}

// EstimateGenerationTime predicts how long generating the given summary type
// would take, as a linear function of transcript word count. The estimate is
// for caller expectations only and is never enforced as a timeout.
func (o *Orchestrator) EstimateGenerationTime(ctx context.Context, meetingID string, t Type) (time.Duration, error) {
	perWord, ok := timePerWord[t]
	if !ok {
		return 0, errors.InvalidInput("summary_type", "unknown summary type "+string(t))
	}

	segments, err := o.segments.ListSegments(ctx, meetingID)
	if err != nil {
		return 0, errors.Repository("list segments", err).WithMeeting(meetingID)
	}

	words := 0
	for _, seg := range segments {
		words += seg.WordCount()
	}
	return estimateBase + time.Duration(words)*perWord, nil
}

// Summaries returns the meeting's persisted summaries in generation order.
func (o *Orchestrator) Summaries(ctx context.Context, meetingID string) ([]Summary, error) {
	list, err := o.summaries.ListSummaries(ctx, meetingID)
	if err != nil {
		return nil, errors.Repository("list summaries", err).WithMeeting(meetingID)
	}
	return list, nil
}

func (o *Orchestrator) loadTranscript(ctx context.Context, meetingID string) ([]transcription.Segment, error) {
	segments, err := o.segments.ListSegments(ctx, meetingID)
	if err != nil {
		return nil, errors.Repository("list segments", err).WithMeeting(meetingID)
	}
	if len(segments) == 0 {
		return nil, errors.NoTranscript(meetingID)
	}
	return segments, nil
}

// buildRecord assembles the persisted summary with metadata derived from the
// transcript: word count, distinct speakers, and the covered time span.
func (o *Orchestrator) buildRecord(meetingID string, t Type, content, customPrompt string, segments []transcription.Segment) Summary {
	words := 0
	seen := make(map[string]struct{})
	var speakers []string
	for _, seg := range segments {
		words += seg.WordCount()
		if seg.SpeakerID == "" {
			continue
		}
		if _, ok := seen[seg.SpeakerID]; !ok {
			seen[seg.SpeakerID] = struct{}{}
			speakers = append(speakers, seg.SpeakerID)
		}
	}

	var duration float64
	if len(segments) > 0 {
		span := segments[len(segments)-1].EndOffsetMs - segments[0].StartOffsetMs
		duration = float64(span) / 1000
	}

	return Summary{
		ID:              uuid.NewString(),
		MeetingID:       meetingID,
		SummaryType:     t,
		Content:         content,
		GeneratedAt:     time.Now().UTC(),
		SegmentCount:    len(segments),
		WordCount:       words,
		DurationSeconds: duration,
		Speakers:        speakers,
		Prompt:          customPrompt,
	}
}
