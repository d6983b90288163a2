package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/rainfall-trends/internal/config"
	"github.com/couchcryptid/rainfall-trends/internal/domain"
	"github.com/couchcryptid/rainfall-trends/internal/observability"
	"github.com/couchcryptid/rainfall-trends/internal/pipeline"
	"github.com/couchcryptid/rainfall-trends/internal/report"
	"github.com/couchcryptid/rainfall-trends/internal/source"
)

// publishWarning is sent with reports whose sinks failed.
const publishWarning = `199 rainfall-trends "report was not published to every sink"`

// Analyzer produces a report for one spreadsheet source.
type Analyzer interface {
	Analyze(ctx context.Context, src source.Source, id string) (*report.Report, error)
}

// Server exposes the analysis API alongside health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	analyzer   Analyzer
	cache      *reportCache
	metrics    *observability.Metrics
	maxUpload  int64
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and the
// /v1 analysis routes.
func NewServer(cfg *config.Config, ready sharedobs.ReadinessChecker, analyzer Analyzer, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      mux,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		analyzer:  analyzer,
		cache:     newReportCache(cfg.ReportCacheSize),
		metrics:   metrics,
		maxUpload: cfg.MaxUploadBytes,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /v1/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /v1/reports/{id}", s.handleReport)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > s.maxUpload {
		s.writeTooLarge(w)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeTooLarge(w)
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("invalid multipart upload: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", `missing multipart file field "file"`)
		return
	}
	defer file.Close() //nolint:errcheck // multipart temp file

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("read upload: %v", err))
		return
	}

	sheet := r.FormValue("sheet")
	src, err := source.FromUpload(header.Filename, data, sheet)
	if err != nil {
		writeError(w, http.StatusUnsupportedMediaType, "unsupported_format",
			fmt.Sprintf("%s (upload .xlsx, .csv or .csv.gz)", err))
		return
	}

	id := source.ContentID(data, sheet)
	if rep, ok := s.cache.get(id); ok {
		s.metrics.ReportCache.WithLabelValues("hit").Inc()
		s.logger.Debug("report cache hit", "id", id, "file", header.Filename)
		s.writeReport(w, r, rep)
		return
	}
	s.metrics.ReportCache.WithLabelValues("miss").Inc()

	rep, err := s.analyzer.Analyze(r.Context(), src, id)
	if err != nil && rep == nil {
		s.writeAnalyzeError(w, err)
		return
	}
	if err != nil {
		// Report built but not published everywhere; display it anyway.
		w.Header().Set("Warning", publishWarning)
	} else {
		s.cache.put(id, rep)
	}
	s.writeReport(w, r, rep)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.cache.get(r.PathValue("id"))
	if !ok {
		s.metrics.ReportCache.WithLabelValues("miss").Inc()
		writeError(w, http.StatusNotFound, "not_found", "report not found or evicted; upload the spreadsheet again")
		return
	}
	s.metrics.ReportCache.WithLabelValues("hit").Inc()
	s.writeReport(w, r, rep)
}

func (s *Server) writeAnalyzeError(w http.ResponseWriter, err error) {
	var missing *domain.MissingColumnError
	var badDate *domain.DateFormatError
	switch {
	case errors.As(err, &missing):
		writeError(w, http.StatusUnprocessableEntity, "missing_column", missing.Error())
	case errors.As(err, &badDate):
		writeError(w, http.StatusUnprocessableEntity, "date_format", badDate.Error())
	case errors.Is(err, pipeline.ErrSource):
		writeError(w, http.StatusBadRequest, "unreadable_spreadsheet", err.Error())
	default:
		s.logger.Error("analysis failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "analysis failed")
	}
}

func (s *Server) writeReport(w http.ResponseWriter, r *http.Request, rep *report.Report) {
	var err error
	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		err = report.RenderText(w, rep)
	} else {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		err = report.RenderJSON(w, rep)
	}
	if err != nil {
		s.logger.Warn("write report failed", "id", rep.ID, "error", err)
	}
}

func (s *Server) writeTooLarge(w http.ResponseWriter) {
	writeError(w, http.StatusRequestEntityTooLarge, "too_large",
		fmt.Sprintf("upload exceeds %d bytes", s.maxUpload))
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, map[string]string{"error": kind, "message": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort error response
}
