package apihttp

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"greenmetrics/internal/audit"
	"greenmetrics/internal/auth"
	"greenmetrics/internal/catalog"
	"greenmetrics/internal/observability/metrics"
	readingsapp "greenmetrics/internal/readings/application"
	readings "greenmetrics/internal/readings/domain"
)

// ReadingsHandler serves the readings collection: listing with filters and
// manual entry.
type ReadingsHandler struct {
	svc     *readingsapp.ReadingService
	auditor audit.Logger
}

// NewReadingsHandler constructs a ReadingsHandler.
func NewReadingsHandler(svc *readingsapp.ReadingService, auditor audit.Logger) *ReadingsHandler {
	return &ReadingsHandler{svc: svc, auditor: auditor}
}

// ServeHTTP handles GET and POST /api/v1/readings.
func (h *ReadingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.svc == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *ReadingsHandler) list(w http.ResponseWriter, r *http.Request) {
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
		http.Error(w, "query readings error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, list)
}

func (h *ReadingsHandler) create(w http.ResponseWriter, r *http.Request) {
	var entry readingsapp.ManualEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if err := auth.EnsureFacilityScope(r.Context(), entry.Facility); err != nil {
		http.Error(w, "facility not in scope", http.StatusForbidden)
		return
	}

	reading, err := h.svc.CreateManual(r.Context(), entry)
	if err != nil {
		if errors.Is(err, readingsapp.ErrInvalidEntry) {
			metrics.IncReadingWrite(metrics.WriteKindManual, metrics.ResultError)
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		metrics.IncReadingWrite(metrics.WriteKindManual, metrics.ResultError)
		http.Error(w, "store reading error", http.StatusInternalServerError)
		return
	}
	metrics.IncReadingWrite(metrics.WriteKindManual, metrics.ResultSuccess)

	if h.auditor != nil {
		metadata, _ := json.Marshal(map[string]any{
			"metric_name":  reading.MetricName,
			"reading_date": reading.ReadingDate,
			"value":        reading.Value,
		})
		_ = h.auditor.Log(r.Context(), audit.Entry{
			Actor:        auth.SubjectFromContext(r.Context()),
			Role:         string(auth.RoleFromContext(r.Context())),
			Action:       audit.ActionManualEntry,
			ResourceType: audit.ResourceReading,
			ResourceID:   reading.ID,
			Facility:     reading.Facility,
			Metadata:     metadata,
			IP:           clientIP(r),
			UserAgent:    r.UserAgent(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(reading)
}

// ReadingItemHandler serves DELETE /api/v1/readings/{id}.
type ReadingItemHandler struct {
	svc     *readingsapp.ReadingService
	auditor audit.Logger
}

// NewReadingItemHandler constructs a ReadingItemHandler.
func NewReadingItemHandler(svc *readingsapp.ReadingService, auditor audit.Logger) *ReadingItemHandler {
	return &ReadingItemHandler{svc: svc, auditor: auditor}
}

// ServeHTTP handles single-reading requests.
func (h *ReadingItemHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.svc == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/v1/readings/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "reading id is required", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, readings.ErrNotFound) {
			metrics.IncReadingDelete(metrics.ResultError)
			http.Error(w, "reading not found", http.StatusNotFound)
			return
		}
		metrics.IncReadingDelete(metrics.ResultError)
		http.Error(w, "delete reading error", http.StatusInternalServerError)
		return
	}
	metrics.IncReadingDelete(metrics.ResultSuccess)

	if h.auditor != nil {
		_ = h.auditor.Log(r.Context(), audit.Entry{
			Actor:        auth.SubjectFromContext(r.Context()),
			Role:         string(auth.RoleFromContext(r.Context())),
			Action:       audit.ActionReadingDelete,
			ResourceType: audit.ResourceReading,
			ResourceID:   id,
			IP:           clientIP(r),
			UserAgent:    r.UserAgent(),
		})
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecentReadingsHandler serves GET /api/v1/readings/recent.
type RecentReadingsHandler struct {
	svc *readingsapp.ReadingService
}

// NewRecentReadingsHandler constructs a RecentReadingsHandler.
func NewRecentReadingsHandler(svc *readingsapp.ReadingService) *RecentReadingsHandler {
	return &RecentReadingsHandler{svc: svc}
}

// ServeHTTP handles recent-readings requests.
func (h *RecentReadingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.svc == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 200 {
			http.Error(w, "limit must be between 1 and 200", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	list, err := h.svc.Recent(r.Context(), limit)
	if err != nil {
		http.Error(w, "query readings error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, list)
}

// CatalogHandler serves GET /api/v1/catalog.
type CatalogHandler struct {
	cat *catalog.Catalog
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	if cat == nil {
		cat = catalog.Default()
	}
	return &CatalogHandler{cat: cat}
}

// ServeHTTP returns the facility, metric and unit enumerations.
func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]any{
		"facilities": h.cat.Facilities(),
		"metrics":    h.cat.Metrics(),
		"units":      h.cat.Units(),
	})
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if comma := strings.IndexByte(forwarded, ','); comma > 0 {
			return strings.TrimSpace(forwarded[:comma])
		}
		return strings.TrimSpace(forwarded)
	}
	host := r.RemoteAddr
	if colon := strings.LastIndexByte(host, ':'); colon > 0 {
		host = host[:colon]
	}
	return host
}
