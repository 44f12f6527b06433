package instrument

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/props/pkg/property"
)

const defaultTracerName = "props"

// TracerConfig configures the OpenTelemetry monitor.
type TracerConfig struct {
	// TracerName is the name of the tracer (default: "props").
	TracerName string

	// Provider is the tracer provider (default: the global provider).
	Provider trace.TracerProvider
}

// TracerOption configures the OpenTelemetry monitor.
type TracerOption func(*TracerConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracerOption {
	return func(c *TracerConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TracerOption {
	return func(c *TracerConfig) {
		c.Provider = tp
	}
}

// Tracer is a property.Monitor and binding.PropagationMonitor that opens a
// span per binding recompute.
//
// Like the properties it observes, a Tracer must only be used from one
// goroutine.
type Tracer struct {
	tracer trace.Tracer
	stack  []context.Context
}

// NewTracer resolves a tracer from the configured provider.
func NewTracer(opts ...TracerOption) *Tracer {
	config := TracerConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Provider == nil {
		config.Provider = otel.GetTracerProvider()
	}
	return &Tracer{
		tracer: config.Provider.Tracer(config.TracerName),
		stack:  []context.Context{context.Background()},
	}
}

// Depth returns the number of propagation spans currently open.
func (t *Tracer) Depth() int {
	return len(t.stack) - 1
}

// Context returns the context of the innermost open span.
func (t *Tracer) Context() context.Context {
	return t.stack[len(t.stack)-1]
}

func (t *Tracer) span() trace.Span {
	return trace.SpanFromContext(t.Context())
}

// StartPropagation implements binding.PropagationMonitor.
func (t *Tracer) StartPropagation(id, name string) func() {
	spanName := "props.propagate"
	if name != "" {
		spanName = fmt.Sprintf("props.propagate %s", name)
	}
	ctx, span := t.tracer.Start(t.Context(), spanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("props.binding_id", id),
			attribute.String("props.binding_name", name),
			attribute.Int("props.depth", t.Depth()+1),
		),
	)
	t.stack = append(t.stack, ctx)
	level := len(t.stack)

	return func() {
		if len(t.stack) == level {
			t.stack = t.stack[:level-1]
		}
		span.End()
	}
}

// PropagationDropped implements binding.PropagationMonitor.
func (t *Tracer) PropagationDropped(id, name string, depth int) {
	t.span().AddEvent("props.propagation_dropped", trace.WithAttributes(
		attribute.String("props.binding_id", id),
		attribute.String("props.binding_name", name),
		attribute.Int("props.depth", depth),
	))
}

// BindingCreated implements binding.PropagationMonitor.
func (t *Tracer) BindingCreated(id, name string) {
	t.span().AddEvent("props.binding_created", trace.WithAttributes(
		attribute.String("props.binding_id", id),
		attribute.String("props.binding_name", name),
	))
}

// BindingDisposed implements binding.PropagationMonitor.
func (t *Tracer) BindingDisposed(id, name string) {
	t.span().AddEvent("props.binding_disposed", trace.WithAttributes(
		attribute.String("props.binding_id", id),
		attribute.String("props.binding_name", name),
	))
}

// Notified implements property.Monitor.
func (t *Tracer) Notified(kind property.Kind, listeners int) {
	t.span().AddEvent("props.notify", trace.WithAttributes(
		attribute.String("props.kind", kind.String()),
		attribute.Int("props.listeners", listeners),
	))
}

// ListenerFailed implements property.Monitor.
func (t *Tracer) ListenerFailed(kind property.Kind, err error) {
	span := t.span()
	span.RecordError(err, trace.WithAttributes(attribute.String("props.kind", kind.String())))
	span.SetStatus(codes.Error, err.Error())
}
