package observability

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// StatusError is the status label of ticks that returned an error.
const StatusError = "ERROR"

// Metrics holds the Prometheus collectors fed by tree hooks.
type Metrics struct {
	transitions  *prometheus.CounterVec
	ticks        *prometheus.CounterVec
	tickDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg
// (prometheus.DefaultRegisterer when nil).
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_node_transitions_total",
				Help: "Node status transitions, by node name and new status.",
			},
			[]string{"node", "status"},
		),
		ticks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_tree_ticks_total",
				Help: "Root ticks, by tree and resulting status.",
			},
			[]string{"tree", "status"},
		),
		tickDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arbor_tick_duration_seconds",
				Help:    "Duration of one root tick.",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"tree"},
		),
	}
	for _, c := range []prometheus.Collector{m.transitions, m.ticks, m.tickDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns the lifecycle hooks that update the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStatusChange: func(_ context.Context, e *domain.TransitionEvent) {
			m.transitions.WithLabelValues(e.NodeName, e.Current.String()).Inc()
		},
		OnTick: func(_ context.Context, e *domain.TickEvent) {
			status := e.Status.String()
			if e.Err != nil {
				status = StatusError
			}
			m.ticks.WithLabelValues(e.TreeID, status).Inc()
			m.tickDuration.WithLabelValues(e.TreeID).Observe(e.Duration.Seconds())
		},
	}
}
