// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pentecost"

// Metrics holds all Prometheus metrics for the transcript core.
type Metrics struct {
	// Pipeline metrics
	EventsIngested  *prometheus.CounterVec
	EventsForwarded *prometheus.CounterVec
	EventsDropped   *prometheus.CounterVec

	// Translation metrics
	TranslationsStarted   prometheus.Counter
	TranslationsCompleted prometheus.Counter
	TranslationsFailed    prometheus.Counter
	TranslationsInflight  prometheus.Gauge
	TranslationLatency    prometheus.Histogram

	// Reconciliation buffer metrics
	BufferMessages *prometheus.GaugeVec

	// Stream metrics
	StreamsActive   prometheus.Gauge
	StreamsFinished *prometheus.CounterVec

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		// Pipeline metrics
		EventsIngested: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_ingested_total",
			Help:      "Total number of recognition events entering the pipeline",
		}, []string{"locale", "source"}),
		EventsForwarded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_forwarded_total",
			Help:      "Total number of events forwarded by each stage",
		}, []string{"stage"}),
		EventsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Total number of events dropped by each stage",
		}, []string{"stage", "reason"}),

		// Translation metrics
		TranslationsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translations_started_total",
			Help:      "Total number of translation attempts launched",
		}),
		TranslationsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translations_completed_total",
			Help:      "Total number of translations delivered downstream",
		}),
		TranslationsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translations_failed_total",
			Help:      "Total number of failed translation attempts",
		}),
		TranslationsInflight: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "translations_inflight",
			Help:      "Number of translation attempts currently in flight",
		}),
		TranslationLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "translation_latency_seconds",
			Help:      "Translation call latency in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),

		// Reconciliation buffer metrics
		BufferMessages: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "buffer_messages",
			Help:      "Number of reconciled messages per transcript column",
		}, []string{"column"}),

		// Stream metrics
		StreamsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "streams_active",
			Help:      "Number of recognizer streams currently being consumed",
		}),
		StreamsFinished: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streams_finished_total",
			Help:      "Total number of recognizer streams finished",
		}, []string{"outcome"}),

		// Kafka publish metrics
		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
	}
}

// RecordIngested records an event entering the pipeline.
func (m *Metrics) RecordIngested(locale, source string) {
	m.EventsIngested.WithLabelValues(locale, source).Inc()
}

// RecordForwarded records a stage forwarding an event downstream.
func (m *Metrics) RecordForwarded(stage string) {
	m.EventsForwarded.WithLabelValues(stage).Inc()
}

// RecordDropped records a stage dropping an event.
func (m *Metrics) RecordDropped(stage, reason string) {
	m.EventsDropped.WithLabelValues(stage, reason).Inc()
}

// RecordTranslationStart records a translation attempt being launched.
func (m *Metrics) RecordTranslationStart() {
	m.TranslationsStarted.Inc()
	m.TranslationsInflight.Inc()
}

// RecordTranslationEnd records a translation attempt finishing.
func (m *Metrics) RecordTranslationEnd(err error, latencySeconds float64) {
	m.TranslationsInflight.Dec()
	m.TranslationLatency.Observe(latencySeconds)
	if err != nil {
		m.TranslationsFailed.Inc()
	} else {
		m.TranslationsCompleted.Inc()
	}
}

// RecordBufferSize records the current message count of a transcript column.
func (m *Metrics) RecordBufferSize(column string, size int) {
	m.BufferMessages.WithLabelValues(column).Set(float64(size))
}

// RecordStreamStart records a recognizer stream being consumed.
func (m *Metrics) RecordStreamStart() {
	m.StreamsActive.Inc()
}

// RecordStreamEnd records a recognizer stream finishing.
func (m *Metrics) RecordStreamEnd(outcome string) {
	m.StreamsActive.Dec()
	m.StreamsFinished.WithLabelValues(outcome).Inc()
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}
