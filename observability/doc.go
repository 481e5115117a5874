// Package observability provides OpenTelemetry tracing and metrics for the
// meeting pipeline.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("meetscribe"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanScanCycle)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("meetscribe"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("meetscribe"))
//	metrics.RecordSegmentsIngested(ctx, len(segments))
//
// A nil *Metrics records nothing, so wiring metrics is optional everywhere.
package observability
