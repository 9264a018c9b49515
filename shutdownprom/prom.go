// Package shutdownprom exports onshutdown invocation reports as Prometheus metrics.
package shutdownprom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/evan-idocoding/onshutdown"
)

// unnamedLabel is the name label value for guards registered without WithName.
const unnamedLabel = "unnamed"

// Observer records callback durations and faults. It implements onshutdown.Observer.
type Observer struct {
	duration *prometheus.HistogramVec
	panics   *prometheus.CounterVec
	errors   *prometheus.CounterVec
}

var _ onshutdown.Observer = (*Observer)(nil)

type config struct {
	namespace string
	buckets   []float64
}

// Option configures NewObserver.
type Option func(*config)

// WithNamespace sets the metric namespace. Default: "onshutdown".
func WithNamespace(ns string) Option {
	return func(c *config) { c.namespace = ns }
}

// WithBuckets sets the histogram buckets in seconds. Default: prometheus.DefBuckets.
func WithBuckets(b []float64) Option {
	return func(c *config) {
		if len(b) > 0 {
			c.buckets = b
		}
	}
}

// NewObserver creates an Observer and registers its collectors with reg.
//
// Metrics (with the default namespace):
//   - onshutdown_callback_duration_seconds{name}
//   - onshutdown_callback_panics_total{name}
//   - onshutdown_callback_errors_total{name}
func NewObserver(reg prometheus.Registerer, opts ...Option) (*Observer, error) {
	c := config{namespace: "onshutdown", buckets: prometheus.DefBuckets}
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	o := &Observer{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: c.namespace,
			Name:      "callback_duration_seconds",
			Help:      "Time spent running on shutdown callbacks.",
			Buckets:   c.buckets,
		}, []string{"name"}),
		panics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: c.namespace,
			Name:      "callback_panics_total",
			Help:      "Number of on shutdown callbacks that panicked.",
		}, []string{"name"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: c.namespace,
			Name:      "callback_errors_total",
			Help:      "Number of on shutdown callbacks that returned an error.",
		}, []string{"name"}),
	}

	for _, col := range []prometheus.Collector{o.duration, o.panics, o.errors} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// ObserveShutdown implements onshutdown.Observer.
func (o *Observer) ObserveShutdown(r onshutdown.Report) {
	name := r.Name
	if name == "" {
		name = unnamedLabel
	}
	o.duration.WithLabelValues(name).Observe(r.Duration.Seconds())
	if r.Panicked {
		o.panics.WithLabelValues(name).Inc()
	}
	if r.Err != nil {
		o.errors.WithLabelValues(name).Inc()
	}
}
