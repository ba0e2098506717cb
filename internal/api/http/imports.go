package apihttp

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"greenmetrics/internal/audit"
	"greenmetrics/internal/auth"
	"greenmetrics/internal/catalog"
	ingestion "greenmetrics/internal/ingestion/domain"
	"greenmetrics/internal/ingestion/infrastructure/tabular"
	"greenmetrics/internal/observability/metrics"
	readingsapp "greenmetrics/internal/readings/application"
)

const defaultMaxUploadBytes = 16 << 20

// ImportHandler serves spreadsheet import requests. The same handler backs
// preview and commit; only what happens to valid records differs.
type ImportHandler struct {
	mode      ingestion.Mode
	svc       *readingsapp.ReadingService
	cat       *catalog.Catalog
	auditor   audit.Logger
	maxUpload int64
}

// NewImportHandler constructs an ImportHandler for one pipeline mode.
func NewImportHandler(mode ingestion.Mode, svc *readingsapp.ReadingService, cat *catalog.Catalog, auditor audit.Logger) *ImportHandler {
	if cat == nil {
		cat = catalog.Default()
	}
	return &ImportHandler{
		mode:      mode,
		svc:       svc,
		cat:       cat,
		auditor:   auditor,
		maxUpload: defaultMaxUploadBytes,
	}
}

type importResponse struct {
	ingestion.Result
	Committed int `json:"committed"`
}

// ServeHTTP handles POST /api/v1/imports/{preview,commit}.
func (h *ImportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.svc == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}
	started := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		metrics.ObserveImport(string(h.mode), metrics.ResultError, time.Since(started))
		http.Error(w, "multipart form is required", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		metrics.ObserveImport(string(h.mode), metrics.ResultError, time.Since(started))
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		metrics.ObserveImport(string(h.mode), metrics.ResultError, time.Since(started))
		http.Error(w, "read upload error", http.StatusBadRequest)
		return
	}

	facility := r.FormValue("facility")
	if facility == "" {
		metrics.ObserveImport(string(h.mode), metrics.ResultError, time.Since(started))
		http.Error(w, "facility is required", http.StatusBadRequest)
		return
	}
	if err := auth.EnsureFacilityScope(r.Context(), facility); err != nil {
		metrics.ObserveImport(string(h.mode), metrics.ResultError, time.Since(started))
		http.Error(w, "facility not in scope", http.StatusForbidden)
		return
	}

	document, err := tabular.Decode(header.Filename, data)
	if err != nil {
		metrics.ObserveImport(string(h.mode), metrics.ResultError, time.Since(started))
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	opts := ingestion.Options{
		Mode: h.mode,
		Defaults: ingestion.Defaults{
			Facility:   facility,
			MetricName: r.FormValue("metric_name"),
			SourceFile: header.Filename,
		},
		Catalog:     h.cat,
		StrictUnits: r.FormValue("strict_units") == "true",
	}
	if raw := r.FormValue("preview_limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			metrics.ObserveImport(string(h.mode), metrics.ResultError, time.Since(started))
			http.Error(w, "preview_limit must be a positive integer", http.StatusBadRequest)
			return
		}
		opts.PreviewLimit = limit
	}
	if raw := r.FormValue("mapping"); raw != "" {
		var mapping ingestion.ColumnMapping
		if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
			metrics.ObserveImport(string(h.mode), metrics.ResultError, time.Since(started))
			http.Error(w, "mapping must be a JSON object of column to field", http.StatusBadRequest)
			return
		}
		opts.Mapping = mapping
	}

	result, err := ingestion.Ingest(document.Rows, document.Headers, opts)
	if err != nil {
		metrics.ObserveImport(string(h.mode), metrics.ResultError, time.Since(started))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	metrics.AddImportRows(result.Succeeded, len(result.Failures), len(result.Skips))

	response := importResponse{Result: result}
	if h.mode == ingestion.ModeCommit {
		stored, err := h.svc.CommitRecords(r.Context(), result.Records)
		if err != nil {
			metrics.ObserveImport(string(h.mode), metrics.ResultError, time.Since(started))
			metrics.IncReadingWrite(metrics.WriteKindImport, metrics.ResultError)
			http.Error(w, "store readings error", http.StatusInternalServerError)
			return
		}
		response.Committed = len(stored)
		metrics.IncReadingWrite(metrics.WriteKindImport, metrics.ResultSuccess)

		if h.auditor != nil {
			metadata, _ := json.Marshal(map[string]any{
				"file":      header.Filename,
				"rows":      result.TotalRows,
				"committed": len(stored),
				"failed":    len(result.Failures),
				"skipped":   len(result.Skips),
			})
			_ = h.auditor.Log(r.Context(), audit.Entry{
				Actor:        auth.SubjectFromContext(r.Context()),
				Role:         string(auth.RoleFromContext(r.Context())),
				Action:       audit.ActionImportCommit,
				ResourceType: audit.ResourceImport,
				ResourceID:   header.Filename,
				Facility:     facility,
				Metadata:     metadata,
				IP:           clientIP(r),
				UserAgent:    r.UserAgent(),
			})
		}
	}

	metrics.ObserveImport(string(h.mode), metrics.ResultSuccess, time.Since(started))
	writeJSON(w, response)
}
