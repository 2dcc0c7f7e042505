package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all client metrics
type Metrics struct {
	// Dispatch lifecycle metrics
	DispatchesIssued  *prometheus.CounterVec
	DispatchesSettled *prometheus.CounterVec
	StaleSettlements  *prometheus.CounterVec
	DispatchLatency   *prometheus.HistogramVec

	// Remote call metrics
	RemoteCalls   *prometheus.CounterVec
	RemoteLatency *prometheus.HistogramVec
}

// New creates all client metrics under the given namespace and
// registers them on reg. Tests pass a private registry so repeated
// construction never collides.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		DispatchesIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatches_issued_total",
			Help:      "Total number of dispatches issued per action",
		}, []string{"action"}),
		DispatchesSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatches_settled_total",
			Help:      "Total number of dispatches settled per action and outcome",
		}, []string{"action", "outcome"}),
		StaleSettlements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_settlements_total",
			Help:      "Total number of superseded settlements discarded on arrival",
		}, []string{"action"}),
		DispatchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Time from dispatch to settlement",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"action"}),
		RemoteCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_calls_total",
			Help:      "Total number of remote API calls",
		}, []string{"endpoint", "status"}),
		RemoteLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "remote_call_duration_seconds",
			Help:      "Duration of remote API calls",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"endpoint"}),
	}

	reg.MustRegister(
		m.DispatchesIssued,
		m.DispatchesSettled,
		m.StaleSettlements,
		m.DispatchLatency,
		m.RemoteCalls,
		m.RemoteLatency,
	)

	return m
}
