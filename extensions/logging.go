// Package extensions provides built-in reacton.Extension implementations
// wiring the module's ambient telemetry stack (logging, tracing, metrics)
// and a dependency-graph debug renderer into a Store.
package extensions

import (
	"github.com/sitharaj88/reacton"
	"github.com/sitharaj88/reacton/internal/telemetry"
)

// LoggingExtension logs every Store operation at debug level and every
// failure at error level. Adapted from the teacher's
// extensions/logging.go, which used bare fmt.Printf; this replaces that
// with structured logrus output via internal/telemetry.
type LoggingExtension struct {
	reacton.BaseExtension
	logger *telemetry.Logger
}

// NewLoggingExtension wraps logger into a reacton.Extension.
func NewLoggingExtension(logger *telemetry.Logger) *LoggingExtension {
	return &LoggingExtension{
		BaseExtension: reacton.NewBaseExtension("logging", 10),
		logger:        logger,
	}
}

func (e *LoggingExtension) Wrap(op *reacton.Operation, next func() (any, error)) (any, error) {
	v, err := next()
	fields := map[string]any{
		"ref":  op.Ref.Name(),
		"kind": string(op.Ref.Kind()),
		"op":   string(op.Kind),
	}
	if err != nil {
		e.logger.With(fields).Error("operation failed", err)
	} else {
		e.logger.With(fields).Debug("operation completed")
	}
	return v, err
}

func (e *LoggingExtension) OnError(ref *reacton.Ref, err error) {
	e.logger.With(map[string]any{"ref": ref.Name()}).Error("recompute failed", err)
}
