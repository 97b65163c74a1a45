package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// BusinessEvents opens spans for domain operations, one level above the
// HTTP and database spans.
type BusinessEvents struct {
	tracer trace.Tracer
}

func NewBusinessEvents() *BusinessEvents {
	return &BusinessEvents{
		tracer: otel.Tracer("business-events"),
	}
}

// ============================================================================
// TOGGLES
// ============================================================================

// TraceToggle creates a span for a like or subscription toggle. The caller
// records the outcome with RecordToggleResult.
func (be *BusinessEvents) TraceToggle(ctx context.Context, kind, actorID, targetID string) (context.Context, trace.Span) {
	return be.tracer.Start(ctx, "toggle."+kind,
		trace.WithAttributes(
			attribute.String("toggle.kind", kind),
			attribute.String("user.id", actorID),
			attribute.String("target.id", targetID),
		),
	)
}

// RecordToggleResult marks whether the toggle left the relation present.
func RecordToggleResult(span trace.Span, present bool) {
	span.SetAttributes(attribute.Bool("toggle.present", present))
}

// ============================================================================
// VIDEOS
// ============================================================================

// VideoEventAttrs carries optional attributes for video spans.
type VideoEventAttrs struct {
	VideoID     string
	OwnerID     string
	FileSize    int64
	Duration    float64
	IsPublished bool
}

// TraceVideoPublish creates a span covering upload and persistence of a new video.
func (be *BusinessEvents) TraceVideoPublish(ctx context.Context, attrs VideoEventAttrs) (context.Context, trace.Span) {
	ctx, span := be.tracer.Start(ctx, "video.publish",
		trace.WithAttributes(
			attribute.String("user.id", attrs.OwnerID),
		),
	)
	if attrs.FileSize > 0 {
		span.SetAttributes(attribute.Int64("file.size_bytes", attrs.FileSize))
	}
	return ctx, span
}

// TraceVideoView creates a span for a video read that bumps the view counter.
func (be *BusinessEvents) TraceVideoView(ctx context.Context, videoID string) (context.Context, trace.Span) {
	return be.tracer.Start(ctx, "video.view",
		trace.WithAttributes(
			attribute.String("video.id", videoID),
		),
	)
}

// RecordVideo attaches the persisted video's attributes to span.
func RecordVideo(span trace.Span, attrs VideoEventAttrs) {
	span.SetAttributes(
		attribute.String("video.id", attrs.VideoID),
		attribute.Bool("video.published", attrs.IsPublished),
	)
	if attrs.Duration > 0 {
		span.SetAttributes(attribute.Float64("video.duration_seconds", attrs.Duration))
	}
}

// ============================================================================
// EXTERNAL CALLS
// ============================================================================

// TraceExternalAPI creates a span for a call to an external collaborator
// (blob storage, search index).
func (be *BusinessEvents) TraceExternalAPI(ctx context.Context, service string, operation string) (context.Context, trace.Span) {
	return be.tracer.Start(ctx, "external."+service+"."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("external.service", service),
			attribute.String("external.operation", operation),
		),
	)
}

// RecordError marks span as failed. Nil errors are ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
}

var globalBusinessEvents = NewBusinessEvents()

// GetBusinessEvents returns the process-wide business events tracer.
func GetBusinessEvents() *BusinessEvents {
	return globalBusinessEvents
}
