package extensions

import (
	"time"

	"github.com/sitharaj88/reacton"
	"github.com/sitharaj88/reacton/internal/telemetry"
)

// MetricsExtension records Prometheus counters and histograms for flush
// and recompute activity, grounded in dshills-langgraph-go's graph/metrics
// and replacing the teacher's PoolManager atomic-counter approach.
type MetricsExtension struct {
	reacton.BaseExtension
	metrics      *telemetry.Metrics
	flushStarted time.Time
}

// NewMetricsExtension wraps metrics into a reacton.Extension.
func NewMetricsExtension(metrics *telemetry.Metrics) *MetricsExtension {
	return &MetricsExtension{
		BaseExtension: reacton.NewBaseExtension("metrics", 30),
		metrics:       metrics,
	}
}

func (e *MetricsExtension) Wrap(op *reacton.Operation, next func() (any, error)) (any, error) {
	v, err := next()
	if op.Kind == reacton.OpRecompute {
		e.metrics.Recomputes.Inc()
	}
	return v, err
}

func (e *MetricsExtension) OnFlushStart(store *reacton.Store) {
	e.flushStarted = time.Now()
}

func (e *MetricsExtension) OnFlushEnd(store *reacton.Store, err error) {
	e.metrics.Flushes.Inc()
	e.metrics.FlushLatency.Observe(time.Since(e.flushStarted).Seconds())
}
