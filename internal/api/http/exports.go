package apihttp

import (
	"net/http"
	"time"

	"greenmetrics/internal/auth"
	"greenmetrics/internal/observability/metrics"
	readingsapp "greenmetrics/internal/readings/application"
	readings "greenmetrics/internal/readings/domain"
	readingsexport "greenmetrics/internal/readings/interfaces"
)

// ExportFormat selects the rendering of a readings export.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
	ExportPDF  ExportFormat = "pdf"
)

// ExportReadingsHandler serves GET /api/v1/exports/readings.{csv,xlsx,pdf}.
type ExportReadingsHandler struct {
	svc    *readingsapp.ReadingService
	format ExportFormat
}

// NewExportReadingsHandler constructs an export handler for one format.
func NewExportReadingsHandler(svc *readingsapp.ReadingService, format ExportFormat) *ExportReadingsHandler {
	return &ExportReadingsHandler{svc: svc, format: format}
}

// ServeHTTP renders filtered readings in the handler's format.
func (h *ExportReadingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.svc == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}
	started := time.Now()

	filter := readings.ListFilter{
		Facility:   r.URL.Query().Get("facility"),
		MetricName: r.URL.Query().Get("metric"),
		From:       r.URL.Query().Get("from"),
		To:         r.URL.Query().Get("to"),
	}
	if err := auth.EnsureFacilityScope(r.Context(), filter.Facility); err != nil {
		http.Error(w, "facility not in scope", http.StatusForbidden)
		return
	}

	list, err := h.svc.List(r.Context(), filter)
	if err != nil {
		metrics.ObserveExport(string(h.format), metrics.ResultError, time.Since(started))
		http.Error(w, "query readings error", http.StatusInternalServerError)
		return
	}

	switch h.format {
	case ExportCSV:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="readings.csv"`)
		if err := readingsexport.WriteReadingsCSV(w, list); err != nil {
			metrics.ObserveExport(string(h.format), metrics.ResultError, time.Since(started))
			return
		}
	case ExportXLSX:
		data, err := readingsexport.BuildReadingsXLSX(list)
		if err != nil {
			metrics.ObserveExport(string(h.format), metrics.ResultError, time.Since(started))
			http.Error(w, "build workbook error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="readings.xlsx"`)
		_, _ = w.Write(data)
	case ExportPDF:
		data, err := readingsexport.BuildReadingsPDF("Utility Readings", list, time.Now())
		if err != nil {
			metrics.ObserveExport(string(h.format), metrics.ResultError, time.Since(started))
			http.Error(w, "build report error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="readings.pdf"`)
		_, _ = w.Write(data)
	default:
		http.Error(w, "unknown export format", http.StatusNotFound)
		return
	}
	metrics.ObserveExport(string(h.format), metrics.ResultSuccess, time.Since(started))
}
