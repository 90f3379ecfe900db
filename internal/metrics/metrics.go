// Package metrics provides Prometheus metrics for the LED sequencer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smazurov/ledchaser/internal/events"
	"github.com/smazurov/ledchaser/internal/led"
	"github.com/smazurov/ledchaser/internal/sequencer"
)

const namespace = "ledchaser"

// Collector owns a private registry with the sequencer metrics.
// It implements sequencer.Observer.
type Collector struct {
	registry    *prometheus.Registry
	ticks       *prometheus.CounterVec
	writeErrors prometheus.Counter
	stores      *prometheus.CounterVec
	unsubs      []func()
}

var _ sequencer.Observer = (*Collector)(nil)

// New registers the sequencer metrics. Mode and period gauges read ctrl
// on every scrape.
func New(ctrl *sequencer.Control) *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	c := &Collector{
		registry: registry,
		ticks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Patterns written to the LED bank",
		}, []string{"mode"}),
		writeErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_errors_total",
			Help:      "Failed LED bank writes",
		}),
		stores: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stores_total",
			Help:      "Control surface writes by attribute and result",
		}, []string{"attribute", "result"}),
	}

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mode",
		Help:      "Current sequencer mode (0=corre, 1=izq, 2=der)",
	}, func() float64 { return float64(ctrl.Mode()) })

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "period_milliseconds",
		Help:      "Current blink period",
	}, func() float64 { return float64(ctrl.Period()) })

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// ObserveTick counts a successful pattern write.
func (c *Collector) ObserveTick(mode sequencer.Mode, _ led.Pattern) {
	c.ticks.WithLabelValues(mode.String()).Inc()
}

// ObserveWriteError counts a failed pattern write.
func (c *Collector) ObserveWriteError(_ error) {
	c.writeErrors.Inc()
}

// Subscribe counts control surface stores published on bus.
func (c *Collector) Subscribe(bus *events.Bus) {
	c.unsubs = append(c.unsubs,
		bus.Subscribe(func(_ events.ModeChangedEvent) {
			c.stores.WithLabelValues("mode", "applied").Inc()
		}),
		bus.Subscribe(func(_ events.PeriodChangedEvent) {
			c.stores.WithLabelValues("period", "applied").Inc()
		}),
		bus.Subscribe(func(e events.StoreRejectedEvent) {
			c.stores.WithLabelValues(e.Attribute, "rejected").Inc()
		}),
	)
}

// Unsubscribe detaches from the event bus.
func (c *Collector) Unsubscribe() {
	for _, unsub := range c.unsubs {
		unsub()
	}
	c.unsubs = nil
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
