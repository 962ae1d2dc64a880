package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dust_damage"

// Metrics holds the Prometheus counters, histograms, and gauges for the
// assessment pipeline and HTTP API.
type Metrics struct {
	RequestsConsumed prometheus.Counter
	ResultsProduced  prometheus.Counter
	TransformErrors  prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Rejections counts validation failures per error kind.
	Rejections *prometheus.CounterVec // labels: kind={invalid_moisture,invalid_roughness,invalid_cost,invalid_range}

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// HTTP assessment metrics.
	HTTPAssessments *prometheus.CounterVec // labels: endpoint={compute,report}, outcome={accepted,rejected,malformed,limited}

	// DamageAmount observes computed damage amounts in currency units.
	DamageAmount prometheus.Histogram
}

func newMetrics() *Metrics {
	return &Metrics{
		RequestsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_consumed_total",
			Help:      "Total assessment requests read from the source topic.",
		}),
		ResultsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_produced_total",
			Help:      "Total assessment results and rejections written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_errors_total",
			Help:      "Total requests skipped because they could not be parsed or serialized.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		Rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejections_total",
			Help:      "Validation failures by error kind.",
		}, []string{"kind"}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of requests per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		HTTPAssessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_assessments_total",
			Help:      "HTTP assessment requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		DamageAmount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "damage_amount",
			Help:      "Computed damage amounts in currency units.",
			Buckets:   prometheus.ExponentialBuckets(10, 10, 8),
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RequestsConsumed,
		m.ResultsProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.Rejections,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.HTTPAssessments,
		m.DamageAmount,
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics registered with a fresh registry to
// avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	m := newMetrics()
	prometheus.NewRegistry().MustRegister(m.collectors()...)
	return m
}

// ObserveRejection counts one rejection per distinct error kind.
func (m *Metrics) ObserveRejection(kinds []string) {
	for _, k := range kinds {
		m.Rejections.WithLabelValues(k).Inc()
	}
}
