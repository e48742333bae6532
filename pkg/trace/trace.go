// Package trace provides OpenTelemetry instrumentation for live sessions:
// a span per dispatched client event and per server-side render.
package trace

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/filament-ui/filament/pkg/dom"
)

const defaultTracerName = "filament"

// Config configures event tracing.
type Config struct {
	// TracerName is the name of the tracer (default: "filament").
	TracerName string

	// Filter determines which events to trace by event type.
	// Return true to trace the event, false to skip.
	// If nil, all events are traced.
	Filter func(eventType string) bool

	// AttributeExtractor extracts custom attributes from the event.
	// Called for each traced event.
	AttributeExtractor func(ev *dom.Event) []attribute.KeyValue
}

// Option configures event tracing.
type Option func(*Config)

// WithTracerName sets the tracer name.
func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

// WithEventFilter sets a filter function for events.
func WithEventFilter(filter func(eventType string) bool) Option {
	return func(c *Config) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(ev *dom.Event) []attribute.KeyValue) Option {
	return func(c *Config) {
		c.AttributeExtractor = extractor
	}
}

// Tracer wraps an OpenTelemetry tracer with event and render helpers.
type Tracer struct {
	config Config
	tracer trace.Tracer
}

// New creates a Tracer against the global otel tracer provider.
func New(opts ...Option) *Tracer {
	config := Config{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.TracerName == "" {
		config.TracerName = defaultTracerName
	}
	return &Tracer{
		config: config,
		tracer: otel.Tracer(config.TracerName),
	}
}

// StartEvent starts a span for a client event dispatch. It returns a
// finish function that records the outcome and ends the span. When the
// event is filtered out, the finish function is a no-op.
func (t *Tracer) StartEvent(ctx context.Context, sessionID string, ev *dom.Event) (context.Context, func(err error)) {
	if t == nil {
		return ctx, func(error) {}
	}
	if t.config.Filter != nil && !t.config.Filter(ev.Type) {
		return ctx, func(error) {}
	}

	attrs := []attribute.KeyValue{
		attribute.String("filament.event.type", ev.Type),
		attribute.String("filament.session.id", sessionID),
	}
	if ev.Target != nil {
		attrs = append(attrs, attribute.String("filament.event.target", ev.Target.TagName))
	}
	if t.config.AttributeExtractor != nil {
		attrs = append(attrs, t.config.AttributeExtractor(ev)...)
	}

	ctx, span := t.tracer.Start(ctx, "filament.event."+ev.Type,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attrs...),
	)
	start := time.Now()

	return ctx, func(err error) {
		span.SetAttributes(attribute.Int64("filament.event.duration_us", time.Since(start).Microseconds()))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}

// StartRender starts a span around a server-side render pass. The kind
// is "ssr", "hydrate" or "patch".
func (t *Tracer) StartRender(ctx context.Context, kind, component string) (context.Context, func(err error)) {
	if t == nil {
		return ctx, func(error) {}
	}
	ctx, span := t.tracer.Start(ctx, "filament.render."+kind,
		trace.WithAttributes(
			attribute.String("filament.render.kind", kind),
			attribute.String("filament.component", component),
		),
	)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}
