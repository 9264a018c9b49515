// Package shutdowntrace records on shutdown callback invocations as
// OpenTelemetry spans.
package shutdowntrace

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/evan-idocoding/onshutdown"
)

// TracerName is the instrumentation name used for the tracer.
const TracerName = "github.com/evan-idocoding/onshutdown"

// SpanName is the name of every recorded span.
const SpanName = "onshutdown.callback"

// Observer turns each onshutdown.Report into a span with the report's start
// time and duration. It implements onshutdown.Observer.
type Observer struct {
	ctx    context.Context
	tracer oteltrace.Tracer
	attrs  []attribute.KeyValue
}

// NewObserver returns an Observer creating spans from tp as children of the
// span in ctx, if any. Extra attributes are added to every span.
func NewObserver(ctx context.Context, tp oteltrace.TracerProvider, attributes ...attribute.KeyValue) *Observer {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Observer{
		ctx:    ctx,
		tracer: tp.Tracer(TracerName),
		attrs:  attributes,
	}
}

// ObserveShutdown implements onshutdown.Observer.
func (o *Observer) ObserveShutdown(r onshutdown.Report) {
	attrs := append([]attribute.KeyValue{
		attribute.String("onshutdown.name", r.Name),
		attribute.Bool("onshutdown.panicked", r.Panicked),
		attribute.Int64("onshutdown.took_us", r.Duration.Microseconds()),
	}, o.attrs...)

	_, span := o.tracer.Start(o.ctx, SpanName,
		oteltrace.WithTimestamp(r.Start),
		oteltrace.WithAttributes(attrs...))

	switch {
	case r.Panicked:
		span.SetStatus(codes.Error, "panic")
	case r.Err != nil:
		span.RecordError(r.Err)
		span.SetStatus(codes.Error, r.Err.Error())
	default:
		span.SetStatus(codes.Ok, "ok")
	}
	span.End(oteltrace.WithTimestamp(r.Start.Add(r.Duration)))
}
