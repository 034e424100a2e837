package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector bundles the pipeline's Prometheus metrics. The host system owns
// exposition; this package only registers and increments.
type Collector struct {
	DocumentsValidated *prometheus.CounterVec
	IssuesReported     *prometheus.CounterVec
	ValidationDuration prometheus.Histogram
	CacheHits          prometheus.Counter
	KnowledgeReloads   prometheus.Counter
	RuleErrors         prometheus.Counter
}

// NewCollector registers the medqc metrics on a registerer (pass
// prometheus.DefaultRegisterer outside of tests).
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		DocumentsValidated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medqc",
			Subsystem: "pipeline",
			Name:      "documents_validated_total",
			Help:      "Documents run through the QC pipeline, by type and verdict.",
		}, []string{"document_type", "qualified"}),

		IssuesReported: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medqc",
			Subsystem: "pipeline",
			Name:      "issues_reported_total",
			Help:      "Validation issues produced, by severity.",
		}, []string{"severity"}),

		ValidationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "medqc",
			Subsystem: "pipeline",
			Name:      "validation_duration_seconds",
			Help:      "Wall time of one document validation run.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}),

		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "medqc",
			Subsystem: "pipeline",
			Name:      "verdict_cache_hits_total",
			Help:      "Validation runs served from the verdict cache.",
		}),

		KnowledgeReloads: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "medqc",
			Subsystem: "knowledge",
			Name:      "reloads_total",
			Help:      "Successful knowledge-base snapshot swaps.",
		}),

		RuleErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "medqc",
			Subsystem: "rules",
			Name:      "evaluation_errors_total",
			Help:      "Rules that could not be evaluated (e.g. unsupported conditions).",
		}),
	}
}
