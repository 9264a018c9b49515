package shutdowntrace

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/evan-idocoding/onshutdown"
)

func newRecorder(t *testing.T) (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return sr, tp
}

func attr(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, a := range attrs {
		if string(a.Key) == key {
			return a.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestObserver_SpanTiming(t *testing.T) {
	t.Parallel()
	sr, tp := newRecorder(t)
	o := NewObserver(context.Background(), tp, attribute.String("component", "test"))

	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	o.ObserveShutdown(onshutdown.Report{Name: "db", Start: start, Duration: 1500 * time.Microsecond})

	spans := sr.Ended()
	require.Len(t, spans, 1)
	s := spans[0]
	assert.Equal(t, SpanName, s.Name())
	assert.Equal(t, start, s.StartTime())
	assert.Equal(t, start.Add(1500*time.Microsecond), s.EndTime())
	assert.Equal(t, codes.Ok, s.Status().Code)

	v, ok := attr(s.Attributes(), "onshutdown.name")
	require.True(t, ok)
	assert.Equal(t, "db", v.AsString())
	v, ok = attr(s.Attributes(), "onshutdown.took_us")
	require.True(t, ok)
	assert.Equal(t, int64(1500), v.AsInt64())
	v, ok = attr(s.Attributes(), "component")
	require.True(t, ok)
	assert.Equal(t, "test", v.AsString())
}

func TestObserver_Status(t *testing.T) {
	t.Parallel()
	sr, tp := newRecorder(t)
	o := NewObserver(nil, tp) //nolint:staticcheck

	o.ObserveShutdown(onshutdown.Report{Name: "p", Panicked: true})
	o.ObserveShutdown(onshutdown.Report{Name: "e", Err: errors.New("close failed")})

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "panic", spans[0].Status().Description)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "close failed", spans[1].Status().Description)
	require.Len(t, spans[1].Events(), 1)
	assert.Equal(t, "exception", spans[1].Events()[0].Name)
}

func TestObserver_ChildOfContextSpan(t *testing.T) {
	t.Parallel()
	sr, tp := newRecorder(t)

	ctx, parent := tp.Tracer("test").Start(context.Background(), "main")
	onshutdown.Run(func(s *onshutdown.Scope) {
		s.OnShutdown(func() {}, onshutdown.WithName("a"))
		s.OnShutdown(func() {}, onshutdown.WithName("b"))
	}, onshutdown.WithTiming(false), onshutdown.WithObserver(NewObserver(ctx, tp)))
	parent.End()

	spans := sr.Ended()
	require.Len(t, spans, 3)
	for _, s := range spans[:2] {
		assert.Equal(t, parent.SpanContext().SpanID(), s.Parent().SpanID())
	}
	first, _ := attr(spans[0].Attributes(), "onshutdown.name")
	assert.Equal(t, "b", first.AsString())
}
