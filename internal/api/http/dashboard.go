package apihttp

import (
	"errors"
	"net/http"
	"time"

	"greenmetrics/internal/auth"
	dashapp "greenmetrics/internal/dashboard/application"
	"greenmetrics/internal/observability/metrics"
)

// SummaryHandler serves GET /api/v1/dashboard/summary.
type SummaryHandler struct {
	svc *dashapp.DashboardService
}

// NewSummaryHandler constructs a SummaryHandler.
func NewSummaryHandler(svc *dashapp.DashboardService) *SummaryHandler {
	return &SummaryHandler{svc: svc}
}

// ServeHTTP returns one trend card per metric for a facility.
func (h *SummaryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.svc == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}
	started := time.Now()

	facility := r.URL.Query().Get("facility")
	if facility == "" {
		http.Error(w, "facility is required", http.StatusBadRequest)
		return
	}
	if err := auth.EnsureFacilityScope(r.Context(), facility); err != nil {
		http.Error(w, "facility not in scope", http.StatusForbidden)
		return
	}

	window := dashapp.Window(r.URL.Query().Get("window"))
	if window == "" {
		window = dashapp.WindowWeek
	}

	cards, err := h.svc.Summary(r.Context(), facility, window)
	if err != nil {
		if errors.Is(err, dashapp.ErrUnknownWindow) {
			http.Error(w, "window must be day, week or month", http.StatusBadRequest)
			return
		}
		metrics.ObserveDashboardQuery(metrics.ResultError, time.Since(started))
		http.Error(w, "query summary error", http.StatusInternalServerError)
		return
	}
	metrics.ObserveDashboardQuery(metrics.ResultSuccess, time.Since(started))
	writeJSON(w, cards)
}

// SeriesHandler serves GET /api/v1/dashboard/series.
type SeriesHandler struct {
	svc *dashapp.DashboardService
}

// NewSeriesHandler constructs a SeriesHandler.
func NewSeriesHandler(svc *dashapp.DashboardService) *SeriesHandler {
	return &SeriesHandler{svc: svc}
}

// ServeHTTP returns daily totals for one metric at one facility.
func (h *SeriesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.svc == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}
	started := time.Now()

	query := r.URL.Query()
	facility := query.Get("facility")
	metric := query.Get("metric")
	if facility == "" || metric == "" {
		http.Error(w, "facility and metric are required", http.StatusBadRequest)
		return
	}
	if err := auth.EnsureFacilityScope(r.Context(), facility); err != nil {
		http.Error(w, "facility not in scope", http.StatusForbidden)
		return
	}

	points, err := h.svc.Series(r.Context(), facility, metric, query.Get("from"), query.Get("to"))
	if err != nil {
		metrics.ObserveDashboardQuery(metrics.ResultError, time.Since(started))
		http.Error(w, "query series error", http.StatusInternalServerError)
		return
	}
	metrics.ObserveDashboardQuery(metrics.ResultSuccess, time.Since(started))
	writeJSON(w, points)
}
