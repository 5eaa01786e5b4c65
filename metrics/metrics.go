// Package metrics exposes the engine's prometheus instrumentation through a
// package-level Observer.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var Observer = &Metrics{prometheus: newPrometheusMetrics()}

func init() {
	prometheus.MustRegister(
		Observer.prometheus.FetchAttempts,
		Observer.prometheus.FetchFailures,
		Observer.prometheus.BreakerState,
		Observer.prometheus.BreakerTransitions,
		Observer.prometheus.Verdicts,
	)
}

type Metrics struct {
	prometheus Prometheus
}

// IncrementFetch counts one outbound attempt against a data source.
func (m *Metrics) IncrementFetch(source string) {
	m.prometheus.FetchAttempts.WithLabelValues(source).Inc()
}

// IncrementFetchFailure counts one failed attempt, labeled by class.
func (m *Metrics) IncrementFetchFailure(source, class string) {
	m.prometheus.FetchFailures.WithLabelValues(source, class).Inc()
}

// NoteBreakerState records the breaker state as a gauge: 0 closed, 1 open.
func (m *Metrics) NoteBreakerState(source string, open bool) {
	v := 0.0
	if open {
		v = 1.0
	}
	m.prometheus.BreakerState.WithLabelValues(source).Set(v)
}

// IncrementBreakerTransition counts a state change ("open", "closed").
func (m *Metrics) IncrementBreakerTransition(source, to string) {
	m.prometheus.BreakerTransitions.WithLabelValues(source, to).Inc()
}

// IncrementVerdict counts a trade-approval outcome ("allowed", "denied").
func (m *Metrics) IncrementVerdict(result string) {
	m.prometheus.Verdicts.WithLabelValues(result).Inc()
}
