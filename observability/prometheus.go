// Package observability exports engine metrics to Prometheus.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/sdrecon"
)

const namespace = "sdrecon"

// PrometheusCollector implements sdrecon.MetricsCollector.
type PrometheusCollector struct {
	opLatency *prometheus.HistogramVec
	examples  prometheus.Counter
	evaluated prometheus.Counter
	skipped   prometheus.Counter
}

var _ sdrecon.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheusCollector creates a collector and registers its metrics on reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &PrometheusCollector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_latency_seconds",
			Help:      "Latency of engine operations",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"op", "status"}),
		examples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "examples_total",
			Help:      "Total training examples stored",
		}),
		evaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluated_samples_total",
			Help:      "Total samples scored by evaluation runs",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_samples_total",
			Help:      "Total samples evaluation runs could not score",
		}),
	}

	for _, col := range []prometheus.Collector{c.opLatency, c.examples, c.evaluated, c.skipped} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordTrain implements sdrecon.MetricsCollector.
func (c *PrometheusCollector) RecordTrain(d time.Duration, err error) {
	c.opLatency.WithLabelValues("train", status(err)).Observe(d.Seconds())
	if err == nil {
		c.examples.Inc()
	}
}

// RecordPredict implements sdrecon.MetricsCollector.
func (c *PrometheusCollector) RecordPredict(_ int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("predict", status(err)).Observe(d.Seconds())
}

// RecordClassify implements sdrecon.MetricsCollector.
func (c *PrometheusCollector) RecordClassify(_ int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("classify", status(err)).Observe(d.Seconds())
}

// RecordFuse implements sdrecon.MetricsCollector.
func (c *PrometheusCollector) RecordFuse(d time.Duration, err error) {
	c.opLatency.WithLabelValues("fuse", status(err)).Observe(d.Seconds())
}

// RecordEvaluate implements sdrecon.MetricsCollector.
func (c *PrometheusCollector) RecordEvaluate(evaluated, skipped int, d time.Duration) {
	c.opLatency.WithLabelValues("evaluate", "success").Observe(d.Seconds())
	c.evaluated.Add(float64(evaluated))
	c.skipped.Add(float64(skipped))
}
