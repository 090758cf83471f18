package telemetry

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the module's Prometheus instruments. Flushes, Recomputes
// and FlushLatency are updated by extensions.MetricsExtension; the query
// and saga counters are registered but nothing increments them. Grounded in dshills-langgraph-go's graph/metrics.go and replacing the
// teacher's hand-rolled atomic-counter PoolManager with real instruments.
type Metrics struct {
	Flushes      prometheus.Counter
	Recomputes   prometheus.Counter
	FlushLatency prometheus.Histogram
	QueryHits    prometheus.Counter
	QueryMisses  prometheus.Counter
	SagaStarts   prometheus.Counter
	SagaCancels  prometheus.Counter
}

// NewMetrics builds and registers every instrument against registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		Flushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reacton", Name: "flushes_total",
			Help: "Total number of scheduler flushes.",
		}),
		Recomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reacton", Name: "recomputes_total",
			Help: "Total number of node recomputations.",
		}),
		FlushLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "reacton", Name: "flush_latency_seconds",
			Help: "Flush duration in seconds.",
		}),
		QueryHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reacton_query", Name: "cache_hits_total",
			Help: "Query cache hits.",
		}),
		QueryMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reacton_query", Name: "cache_misses_total",
			Help: "Query cache misses.",
		}),
		SagaStarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reacton_saga", Name: "tasks_started_total",
			Help: "Saga tasks started.",
		}),
		SagaCancels: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reacton_saga", Name: "tasks_cancelled_total",
			Help: "Saga tasks cancelled.",
		}),
	}
	registry.MustRegister(
		m.Flushes, m.Recomputes, m.FlushLatency,
		m.QueryHits, m.QueryMisses,
		m.SagaStarts, m.SagaCancels,
	)
	return m
}
