// Package extractprom exports dispatch activity as Prometheus metrics.
//
//	c, err := extractprom.New(prometheus.DefaultRegisterer, "orders")
//	if err != nil {
//	    return err
//	}
//	app := extract.New(c.Options()...)
package extractprom

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bjaus/extract"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

// Collector counts unit outcomes and times handler runs.
type Collector struct {
	units    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg. namespace may be
// empty. On error nothing is left registered.
func New(reg prometheus.Registerer, namespace string) (*Collector, error) {
	c := &Collector{
		units: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "extract_units_total",
				Help:      "Units attempted during dispatch passes, by outcome.",
			},
			[]string{"unit", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "extract_unit_duration_seconds",
				Help:      "Handler running time for units that were invoked.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"unit"},
		),
	}

	var done []prometheus.Collector
	for _, col := range []prometheus.Collector{c.units, c.duration} {
		if err := reg.Register(col); err != nil {
			for _, d := range done {
				reg.Unregister(d)
			}
			return nil, err
		}
		done = append(done, col)
	}
	return c, nil
}

// Options returns the hooks that feed the collectors.
func (c *Collector) Options() []extract.Option {
	return []extract.Option{
		extract.WithOnSkip(func(_ context.Context, unit string, _ error) {
			c.units.WithLabelValues(unit, OutcomeSkipped).Inc()
		}),
		extract.WithOnSuccess(func(_ context.Context, unit string, d time.Duration) {
			c.observe(unit, OutcomeSuccess, d)
		}),
		extract.WithOnFailure(func(_ context.Context, unit string, _ error, d time.Duration) {
			c.observe(unit, OutcomeFailure, d)
		}),
	}
}

func (c *Collector) observe(unit, outcome string, d time.Duration) {
	c.units.WithLabelValues(unit, outcome).Inc()
	c.duration.WithLabelValues(unit).Observe(d.Seconds())
}
