package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Analysis outcomes recorded on AnalysesTotal.
const (
	OutcomeSuccess       = "success"
	OutcomeMissingColumn = "missing_column"
	OutcomeDateFormat    = "date_format"
	OutcomeSourceError   = "source_error"
	OutcomeSinkError     = "sink_error"
)

// Metrics holds the Prometheus collectors for rainfall analyses.
type Metrics struct {
	AnalysesTotal    *prometheus.CounterVec // labels: outcome
	RecordsReshaped  prometheus.Counter
	AnalysisDuration prometheus.Histogram

	ReportCache      *prometheus.CounterVec // labels: result={hit,miss}
	ReportsPublished *prometheus.CounterVec // labels: sink
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.AnalysesTotal,
		m.RecordsReshaped,
		m.AnalysisDuration,
		m.ReportCache,
		m.ReportsPublished,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rainfall",
			Name:      "analyses_total",
			Help:      "Spreadsheet analyses by outcome.",
		}, []string{"outcome"}),
		RecordsReshaped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rainfall",
			Name:      "records_reshaped_total",
			Help:      "Long-format records produced from wide tables.",
		}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rainfall",
			Name:      "analysis_duration_seconds",
			Help:      "Duration of a complete load-reshape-aggregate-publish cycle.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}),
		ReportCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rainfall",
			Name:      "report_cache_total",
			Help:      "Report cache lookups by result.",
		}, []string{"result"}),
		ReportsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rainfall",
			Name:      "reports_published_total",
			Help:      "Reports handed to each sink.",
		}, []string{"sink"}),
	}
}
