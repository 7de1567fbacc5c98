package collector

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxIngestBody bounds one ingest payload; run summaries are tiny.
const maxIngestBody = 1 << 20

// Server serves the collector's ingest, exposition, and liveness paths.
type Server struct {
	metrics *Metrics
	logger  *slog.Logger

	metricsPath string
	now         func() time.Time
}

// NewServer creates a collector server around a metrics registry.
func NewServer(metrics *Metrics, metricsPath string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	return &Server{
		metrics:     metrics,
		logger:      logger,
		metricsPath: metricsPath,
		now:         time.Now,
	}
}

// Handler returns the HTTP handler for all collector routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /ingest", s.handleIngest)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET "+s.metricsPath, promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	return mux
}

// handleIngest folds one run summary into the metrics. A payload that
// cannot be parsed bumps the parse-error counter and yields a client
// error; the service itself always stays up.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxIngestBody))
	if err != nil {
		s.rejectIngest(w, "read body: "+err.Error())
		return
	}

	rec, err := parseRecord(body)
	if err != nil {
		s.rejectIngest(w, "parse payload: "+err.Error())
		return
	}

	s.metrics.Observe(rec)

	s.logger.Debug("ingested run record",
		"flow_name", rec.FlowName,
		"symbol", rec.Symbol,
		"records_total", rec.RecordsTotal,
		"errors", rec.Errors,
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": float64(s.now().UnixNano()) / float64(time.Second),
	})
}

func (s *Server) rejectIngest(w http.ResponseWriter, reason string) {
	s.metrics.ParseErrors.Inc()
	s.logger.Warn("rejected ingest payload", "reason", reason)
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": reason})
}

// handleHealth is the liveness check: a constant healthy payload.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
