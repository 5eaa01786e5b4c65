package metrics

import "github.com/prometheus/client_golang/prometheus"

type Prometheus struct {
	FetchAttempts      *prometheus.CounterVec
	FetchFailures      *prometheus.CounterVec
	BreakerState       *prometheus.GaugeVec
	BreakerTransitions *prometheus.CounterVec
	Verdicts           *prometheus.CounterVec
}

func newPrometheusMetrics() Prometheus {
	return Prometheus{
		FetchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agentvault",
			Name:      "fetch_attempts_total",
		}, []string{"source"}),
		FetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agentvault",
			Name:      "fetch_failures_total",
		}, []string{"source", "class"}),
		BreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "agentvault",
			Name:      "breaker_open",
		}, []string{"source"}),
		BreakerTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agentvault",
			Name:      "breaker_transitions_total",
		}, []string{"source", "to"}),
		Verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agentvault",
			Name:      "verdicts_total",
		}, []string{"result"}),
	}
}
