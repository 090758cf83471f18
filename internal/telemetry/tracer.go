package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Tracer opens spans for Store operations (via extensions.TracingExtension),
// grounded in dshills-langgraph-go's OpenTelemetry emitter.
type Tracer struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
}

// NewTracer installs a process-wide TracerProvider (exporter-less by
// default; callers wanting real export register a sdktrace.SpanProcessor
// via Provider() before use) and returns a Tracer for serviceName.
func NewTracer(serviceName string) *Tracer {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	return &Tracer{tracer: tp.Tracer(serviceName), provider: tp}
}

// Provider exposes the underlying TracerProvider so callers can attach
// exporters.
func (t *Tracer) Provider() *sdktrace.TracerProvider { return t.provider }

// Start opens a span named name.
func (t *Tracer) Start(ctx context.Context, name string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name)
}

// Shutdown flushes and stops the TracerProvider.
func (t *Tracer) Shutdown(ctx context.Context) error {
	return t.provider.Shutdown(ctx)
}
