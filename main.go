package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	apihttp "greenmetrics/internal/api/http"
	"greenmetrics/internal/audit"
	"greenmetrics/internal/auth"
	"greenmetrics/internal/catalog"
	dashapp "greenmetrics/internal/dashboard/application"
	ingestion "greenmetrics/internal/ingestion/domain"
	"greenmetrics/internal/observability/metrics"
	readingsapp "greenmetrics/internal/readings/application"
	readingsrepo "greenmetrics/internal/readings/infrastructure/postgres"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	metrics.Init(db, logger)
	auditRepo := audit.NewRepository(db)

	cat := catalog.Default()
	if cfg.CatalogConfig != "" {
		cat, err = catalog.Load(cfg.CatalogConfig)
		if err != nil {
			logger.Fatalf("catalog config error: %v", err)
		}
		logger.Printf("catalog loaded from %s", cfg.CatalogConfig)
	}

	readingRepo := readingsrepo.NewReadingRepository(db)
	readingService, err := readingsapp.NewReadingService(readingRepo, cat, readingsapp.SystemClock{})
	if err != nil {
		logger.Fatalf("reading service error: %v", err)
	}
	dashboardService, err := dashapp.NewDashboardService(readingRepo, cat, dashapp.SystemClock{})
	if err != nil {
		logger.Fatalf("dashboard service error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/imports/preview", apihttp.NewImportHandler(ingestion.ModePreview, readingService, cat, auditRepo))
	mux.Handle("/api/v1/imports/commit", apihttp.NewImportHandler(ingestion.ModeCommit, readingService, cat, auditRepo))
	mux.Handle("/api/v1/readings", apihttp.NewReadingsHandler(readingService, auditRepo))
	mux.Handle("/api/v1/readings/recent", apihttp.NewRecentReadingsHandler(readingService))
	mux.Handle("/api/v1/readings/", apihttp.NewReadingItemHandler(readingService, auditRepo))
	mux.Handle("/api/v1/dashboard/summary", apihttp.NewSummaryHandler(dashboardService))
	mux.Handle("/api/v1/dashboard/series", apihttp.NewSeriesHandler(dashboardService))
	mux.Handle("/api/v1/exports/readings.csv", apihttp.NewExportReadingsHandler(readingService, apihttp.ExportCSV))
	mux.Handle("/api/v1/exports/readings.xlsx", apihttp.NewExportReadingsHandler(readingService, apihttp.ExportXLSX))
	mux.Handle("/api/v1/exports/readings.pdf", apihttp.NewExportReadingsHandler(readingService, apihttp.ExportPDF))
	mux.Handle("/api/v1/catalog", apihttp.NewCatalogHandler(cat))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL   string
	HTTPAddr      string
	CatalogConfig string
	JWTSecret     string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL:   getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:      getenvDefault("HTTP_ADDR", ":8080"),
		CatalogConfig: getenvDefault("CATALOG_CONFIG", ""),
		JWTSecret:     getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
