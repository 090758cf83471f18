package extensions

import (
	"context"

	"github.com/sitharaj88/reacton"
	"github.com/sitharaj88/reacton/internal/telemetry"
)

// TracingExtension opens an OpenTelemetry span around every Store
// operation, grounded in dshills-langgraph-go's OTel emitter.
type TracingExtension struct {
	reacton.BaseExtension
	tracer *telemetry.Tracer
}

// NewTracingExtension wraps tracer into a reacton.Extension.
func NewTracingExtension(tracer *telemetry.Tracer) *TracingExtension {
	return &TracingExtension{
		BaseExtension: reacton.NewBaseExtension("tracing", 20),
		tracer:        tracer,
	}
}

func (e *TracingExtension) Wrap(op *reacton.Operation, next func() (any, error)) (any, error) {
	_, span := e.tracer.Start(context.Background(), string(op.Kind)+":"+op.Ref.Name())
	defer span.End()
	return next()
}
