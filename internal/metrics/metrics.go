// Package metrics exports accumulator state as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gameclock/internal/accumulator"
)

const namespace = "gameclock"

// Exporter holds the gauges for one accumulator on its own registry.
type Exporter struct {
	registry       *prometheus.Registry
	elapsed        prometheus.Gauge
	running        prometheus.Gauge
	effectiveScale prometheus.Gauge
	globalScale    prometheus.Gauge
	steps          prometheus.Counter
}

func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		elapsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "elapsed_seconds",
			Help:      "Accumulated scaled elapsed time.",
		}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "running",
			Help:      "1 while the clock accumulates time, 0 while paused.",
		}),
		effectiveScale: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "effective_scale",
			Help:      "Product of the enabled scale factors.",
		}),
		globalScale: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "global_scale",
			Help:      "Last observed global scale.",
		}),
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Steps run by the driver.",
		}),
	}
	e.registry.MustRegister(e.elapsed, e.running, e.effectiveScale, e.globalScale, e.steps)
	return e
}

// Observe records one snapshot. Call it once per driver step.
func (e *Exporter) Observe(s accumulator.Snapshot) {
	e.elapsed.Set(s.Seconds())
	if s.Running {
		e.running.Set(1)
	} else {
		e.running.Set(0)
	}
	e.effectiveScale.Set(s.EffectiveScale)
	e.globalScale.Set(s.GlobalScale)
	e.steps.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}
