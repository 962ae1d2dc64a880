package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/dust-damage-service/internal/adapter/report"
	"github.com/couchcryptid/dust-damage-service/internal/domain"
	"github.com/couchcryptid/dust-damage-service/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodyBytes = 1 << 20

// Endpoint and outcome label values for the HTTP assessment counter.
const (
	endpointCompute = "compute"
	endpointReport  = "report"

	outcomeAccepted  = "accepted"
	outcomeRejected  = "rejected"
	outcomeMalformed = "malformed"
	outcomeLimited   = "limited"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker = sharedobs.ReadinessChecker

// Limits configures the per-client request rate on assessment endpoints.
type Limits struct {
	Rate  float64 // requests per second
	Burst int
}

// Server exposes health, readiness, metrics, and assessment HTTP endpoints.
type Server struct {
	httpServer *http.Server
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and the
// /v1 assessment routes.
func NewServer(addr string, ready ReadinessChecker, limits Limits, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		metrics: metrics,
		logger:  logger,
	}

	limiter := newClientLimiter(limits.Rate, limits.Burst)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("POST /v1/assessments", limiter.middleware(s.onLimited(endpointCompute), http.HandlerFunc(s.handleAssess)))
	mux.Handle("POST /v1/assessments/report", limiter.middleware(s.onLimited(endpointReport), http.HandlerFunc(s.handleReport)))
	mux.HandleFunc("GET /v1/reference-tables", handleTables)

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

// assessmentResponse is an accepted assessment with its display strings.
type assessmentResponse struct {
	domain.Assessment
	Formatted domain.FormattedResult `json:"formatted"`
}

func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	a, ok := s.assess(w, r, endpointCompute)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, assessmentResponse{Assessment: a, Formatted: domain.Format(a.Result)})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	a, ok := s.assess(w, r, endpointReport)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, a); err != nil {
		s.logger.Error("render report failed", "assessment_id", a.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "report generation failed"})
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.ID+".pdf"))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck // client disconnects are not actionable
}

// assess decodes and computes the request body. On failure it writes the
// 400 or 422 response itself and returns false.
func (s *Server) assess(w http.ResponseWriter, r *http.Request, endpoint string) (domain.Assessment, bool) {
	req, err := decodeRequest(w, r)
	if err != nil {
		s.metrics.HTTPAssessments.WithLabelValues(endpoint, outcomeMalformed).Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return domain.Assessment{}, false
	}

	a, err := domain.Assess(req)
	if err != nil {
		rejection := domain.Reject(req, err)
		kinds := rejection.Kinds()
		s.metrics.ObserveRejection(kinds)
		s.metrics.HTTPAssessments.WithLabelValues(endpoint, outcomeRejected).Inc()
		s.logger.Warn("assessment rejected", "assessment_id", rejection.ID, "case_ref", rejection.CaseRef, "kinds", kinds)
		writeJSON(w, http.StatusUnprocessableEntity, rejection)
		return domain.Assessment{}, false
	}

	s.metrics.HTTPAssessments.WithLabelValues(endpoint, outcomeAccepted).Inc()
	s.metrics.DamageAmount.Observe(a.Result.Damage.Amount)
	return a, true
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (domain.Request, error) {
	var req domain.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return domain.Request{}, fmt.Errorf("decode assessment request: %w", err)
	}
	if dec.More() {
		return domain.Request{}, errors.New("decode assessment request: trailing data after JSON body")
	}
	return req, nil
}

func handleTables(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, domain.Tables())
}

func (s *Server) onLimited(endpoint string) func() {
	return func() {
		s.metrics.HTTPAssessments.WithLabelValues(endpoint, outcomeLimited).Inc()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
