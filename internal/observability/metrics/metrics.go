package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "greenmetrics_"

	resultSuccess = "success"
	resultError   = "error"

	rowOutcomeAccepted = "accepted"
	rowOutcomeFailed   = "failed"
	rowOutcomeSkipped  = "skipped"
)

var (
	registerOnce sync.Once

	importRequests *prometheus.CounterVec
	importLatency  *prometheus.HistogramVec
	importRows     *prometheus.CounterVec

	readingWrites  *prometheus.CounterVec
	readingDeletes *prometheus.CounterVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec

	dashboardQueries *prometheus.CounterVec
	dashboardLatency *prometheus.HistogramVec
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		importRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "import_requests_total",
				Help: "Total spreadsheet import requests by mode and result",
			},
			[]string{"mode", "result"},
		)
		importLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "import_latency_seconds",
				Help:    "Spreadsheet import latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"mode", "result"},
		)
		importRows = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "import_rows_total",
				Help: "Total import rows by outcome",
			},
			[]string{"outcome"},
		)

		readingWrites = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "reading_writes_total",
				Help: "Total reading writes by kind and result",
			},
			[]string{"kind", "result"},
		)
		readingDeletes = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "reading_deletes_total",
				Help: "Total reading deletes by result",
			},
			[]string{"result"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total reading export operations by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Reading export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		dashboardQueries = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "dashboard_queries_total",
				Help: "Total dashboard summary and series queries by result",
			},
			[]string{"result"},
		)
		dashboardLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "dashboard_query_latency_seconds",
				Help:    "Dashboard query latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		prometheus.MustRegister(
			importRequests,
			importLatency,
			importRows,
			readingWrites,
			readingDeletes,
			exportTotal,
			exportLatency,
			dashboardQueries,
			dashboardLatency,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveImport records import request duration and result.
func ObserveImport(mode, result string, duration time.Duration) {
	if mode == "" {
		mode = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if importRequests != nil {
		importRequests.WithLabelValues(mode, result).Inc()
	}
	if importLatency != nil {
		importLatency.WithLabelValues(mode, result).Observe(duration.Seconds())
	}
}

// AddImportRows increments the per-outcome row counters for one import run.
func AddImportRows(accepted, failed, skipped int) {
	if importRows == nil {
		return
	}
	if accepted > 0 {
		importRows.WithLabelValues(rowOutcomeAccepted).Add(float64(accepted))
	}
	if failed > 0 {
		importRows.WithLabelValues(rowOutcomeFailed).Add(float64(failed))
	}
	if skipped > 0 {
		importRows.WithLabelValues(rowOutcomeSkipped).Add(float64(skipped))
	}
}

// IncReadingWrite increments the reading write counter.
func IncReadingWrite(kind, result string) {
	if kind == "" {
		kind = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if readingWrites != nil {
		readingWrites.WithLabelValues(kind, result).Inc()
	}
}

// IncReadingDelete increments the reading delete counter.
func IncReadingDelete(result string) {
	if result == "" {
		result = resultSuccess
	}
	if readingDeletes != nil {
		readingDeletes.WithLabelValues(result).Inc()
	}
}

// ObserveExport records export latency and result.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// ObserveDashboardQuery records dashboard query latency and result.
func ObserveDashboardQuery(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if dashboardQueries != nil {
		dashboardQueries.WithLabelValues(result).Inc()
	}
	if dashboardLatency != nil {
		dashboardLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError

	WriteKindImport = "import"
	WriteKindManual = "manual"
)
