package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RetrievalMetrics records retrieval pipeline events: which stage served
// each query, stage failures, and coverage backfills. Implements the
// retrieval observer port.
type RetrievalMetrics struct {
	service string

	stageServedTotal *prometheus.CounterVec
	stageResults     *prometheus.HistogramVec
	stageErrorsTotal *prometheus.CounterVec
	coverageTotal    prometheus.Counter
}

func NewRetrievalMetrics(reg prometheus.Registerer, service string) *RetrievalMetrics {
	stageServedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pka",
			Subsystem: "retrieval",
			Name:      "stage_served_total",
			Help:      "Total queries served, by pipeline stage.",
		},
		[]string{"service", "stage"},
	)
	stageResults := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pka",
			Subsystem: "retrieval",
			Name:      "stage_results",
			Help:      "Distribution of result counts per served query.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service", "stage"},
	)
	stageErrorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pka",
			Subsystem: "retrieval",
			Name:      "stage_errors_total",
			Help:      "Total stage failures absorbed by the pipeline.",
		},
		[]string{"service", "stage"},
	)
	coverageTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pka",
			Subsystem: "retrieval",
			Name:      "coverage_appended_total",
			Help:      "Total documents appended by the organization coverage pass.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	reg.MustRegister(stageServedTotal, stageResults, stageErrorsTotal, coverageTotal)

	return &RetrievalMetrics{
		service:          service,
		stageServedTotal: stageServedTotal,
		stageResults:     stageResults,
		stageErrorsTotal: stageErrorsTotal,
		coverageTotal:    coverageTotal,
	}
}

func (m *RetrievalMetrics) StageServed(stage string, results int) {
	m.stageServedTotal.WithLabelValues(m.service, stage).Inc()
	m.stageResults.WithLabelValues(m.service, stage).Observe(float64(results))
}

func (m *RetrievalMetrics) StageError(stage string) {
	m.stageErrorsTotal.WithLabelValues(m.service, stage).Inc()
}

func (m *RetrievalMetrics) CoverageAppended(count int) {
	m.coverageTotal.Add(float64(count))
}
