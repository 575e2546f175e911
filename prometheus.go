package retrieval

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector exports catalog metrics through Prometheus.
type PrometheusCollector struct {
	ops     *prometheus.CounterVec
	errors  *prometheus.CounterVec
	latency *prometheus.HistogramVec
	reindex prometheus.Counter
	stale   prometheus.Counter
	matches prometheus.Histogram
}

// NewPrometheusCollector creates a collector and registers its metrics with
// reg. A nil reg registers with prometheus.DefaultRegisterer.
func NewPrometheusCollector(namespace string, reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &PrometheusCollector{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_operations_total",
			Help:      "Catalog operations by kind.",
		}, []string{"op"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_errors_total",
			Help:      "Failed catalog operations by kind.",
		}, []string{"op"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_operation_duration_seconds",
			Help:      "Catalog operation latency.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"op"}),
		reindex: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_reindexed_records_total",
			Help:      "Records visited by reindex passes.",
		}),
		stale: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_stale_records_total",
			Help:      "Records dropped by reindex because they no longer resolve.",
		}),
		matches: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_query_matches",
			Help:      "Number of records matched per query.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
	}

	for _, col := range []prometheus.Collector{c.ops, c.errors, c.latency, c.reindex, c.stale, c.matches} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *PrometheusCollector) observe(op string, duration time.Duration, err error) {
	c.ops.WithLabelValues(op).Inc()
	c.latency.WithLabelValues(op).Observe(duration.Seconds())
	if err != nil {
		c.errors.WithLabelValues(op).Inc()
	}
}

// RecordIndex implements MetricsCollector.
func (c *PrometheusCollector) RecordIndex(duration time.Duration, err error) {
	c.observe("index", duration, err)
}

// RecordUnindex implements MetricsCollector.
func (c *PrometheusCollector) RecordUnindex(duration time.Duration, err error) {
	c.observe("unindex", duration, err)
}

// RecordReindex implements MetricsCollector.
func (c *PrometheusCollector) RecordReindex(count, stale int, duration time.Duration) {
	c.observe("reindex", duration, nil)
	c.reindex.Add(float64(count))
	c.stale.Add(float64(stale))
}

// RecordQuery implements MetricsCollector.
func (c *PrometheusCollector) RecordQuery(total int, duration time.Duration, err error) {
	c.observe("query", duration, err)
	if err == nil {
		c.matches.Observe(float64(total))
	}
}
