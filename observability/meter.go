package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/meetscribe/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the service's metric instruments. A nil *Metrics is valid and
// records nothing, so components can run unmeasured.
type Metrics struct {
	scanCycles        metric.Int64Counter
	meetingsDetected  metric.Int64Counter
	eventsPublished   metric.Int64Counter
	segmentsIngested  metric.Int64Counter
	candidatesDropped metric.Int64Counter
	summaryTotal      metric.Int64Counter
	summaryDuration   metric.Float64Histogram
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	scanCycles, err := meter.Int64Counter("detection.scan_cycles",
		metric.WithDescription("Completed detection scan cycles by source and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating detection.scan_cycles counter: %w", err)
	}

	meetingsDetected, err := meter.Int64Counter("meeting.detected",
		metric.WithDescription("Meetings detected"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating meeting.detected counter: %w", err)
	}

	eventsPublished, err := meter.Int64Counter("event.published",
		metric.WithDescription("Lifecycle events published to subscribers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating event.published counter: %w", err)
	}

	segmentsIngested, err := meter.Int64Counter("transcription.segments",
		metric.WithDescription("Transcript segments ingested"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.segments counter: %w", err)
	}

	candidatesDropped, err := meter.Int64Counter("transcription.candidates_dropped",
		metric.WithDescription("Audio candidates dropped below the confidence threshold"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.candidates_dropped counter: %w", err)
	}

	summaryTotal, err := meter.Int64Counter("summary.generated",
		metric.WithDescription("Summaries generated by type and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating summary.generated counter: %w", err)
	}

	summaryDuration, err := meter.Float64Histogram("summary.duration",
		metric.WithDescription("Summary generation duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating summary.duration histogram: %w", err)
	}

	return &Metrics{
		scanCycles:        scanCycles,
		meetingsDetected:  meetingsDetected,
		eventsPublished:   eventsPublished,
		segmentsIngested:  segmentsIngested,
		candidatesDropped: candidatesDropped,
		summaryTotal:      summaryTotal,
		summaryDuration:   summaryDuration,
	}, nil
}

// RecordScanCycle records one completed scan cycle.
func (m *Metrics) RecordScanCycle(ctx context.Context, source, status string) {
	if m == nil {
		return
	}
	m.scanCycles.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("status", status),
	))
}

// RecordMeetingDetected records one newly detected meeting.
func (m *Metrics) RecordMeetingDetected(ctx context.Context, source string) {
	if m == nil {
		return
	}
	m.meetingsDetected.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
	))
}

// RecordEventPublished records one lifecycle event publication.
func (m *Metrics) RecordEventPublished(ctx context.Context, eventType string) {
	if m == nil {
		return
	}
	m.eventsPublished.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", eventType),
	))
}

// RecordSegmentsIngested records segments accepted into a transcript.
func (m *Metrics) RecordSegmentsIngested(ctx context.Context, n int) {
	if m == nil || n == 0 {
		return
	}
	m.segmentsIngested.Add(ctx, int64(n))
}

// RecordCandidatesDropped records below-threshold candidates discarded.
func (m *Metrics) RecordCandidatesDropped(ctx context.Context, n int) {
	if m == nil || n == 0 {
		return
	}
	m.candidatesDropped.Add(ctx, int64(n))
}

// RecordSummary records one summary generation attempt.
func (m *Metrics) RecordSummary(ctx context.Context, summaryType, status string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("type", summaryType),
		attribute.String("status", status),
	)
	m.summaryTotal.Add(ctx, 1, attrs)
	m.summaryDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("type", summaryType),
	))
}
