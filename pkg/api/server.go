// Package api exposes the classification pipeline over HTTP. The API layer
// makes no decisions of its own: it parses requests, calls the service, and
// formats responses.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/classification"
	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/config"
	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/diagnose"
	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/observability/logging"
	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/services"
)

// blockedReason replaces the real lane reason on the wire for BLOCKED
// results. Echoing which guard fired would help an attacker iterate.
const blockedReason = "blocked"

// ClassificationAPIServer holds the server state and dependencies.
type ClassificationAPIServer struct {
	classificationSvc *services.ClassificationService
	diagnoseClient    *diagnose.Client
	config            *config.RouterConfig
}

// NewClassificationAPIServer creates the API server. A nil svc falls back
// to the most recently constructed classification service. diagnoseClient
// may be nil when no downstream LLM endpoint is configured.
func NewClassificationAPIServer(svc *services.ClassificationService, diagnoseClient *diagnose.Client, cfg *config.RouterConfig) *ClassificationAPIServer {
	if svc == nil {
		svc = services.GetGlobalClassificationService()
	}
	return &ClassificationAPIServer{
		classificationSvc: svc,
		diagnoseClient:    diagnoseClient,
		config:            cfg,
	}
}

// ClassifyRequest is the request body for single-query classification.
// Context is opaque caller metadata and is not interpreted by the core.
type ClassifyRequest struct {
	Query   string            `json:"query"`
	Context map[string]string `json:"context,omitempty"`
}

// BatchClassifyRequest is the request body for batch classification.
type BatchClassifyRequest struct {
	Queries []string `json:"queries"`
}

// BatchClassifyResponse wraps the per-query results.
type BatchClassifyResponse struct {
	Results          []*services.Result `json:"results"`
	TotalCount       int                `json:"total_count"`
	ProcessingTimeMs int64              `json:"processing_time_ms"`
}

// LaneInfo describes one lane for UI callers.
type LaneInfo struct {
	Lane        classification.Lane `json:"lane"`
	Description string              `json:"description"`
}

// DiagnoseRequest is the request body for the GPT-lane dispatch endpoint.
type DiagnoseRequest struct {
	Query string `json:"query"`
}

// DiagnoseResponse carries the downstream model's answer.
type DiagnoseResponse struct {
	Lane   classification.Lane `json:"lane"`
	Answer string              `json:"answer,omitempty"`
	Detail string              `json:"detail,omitempty"`
}

// Start runs the API server on the given port. It blocks until the server
// stops.
func (s *ClassificationAPIServer) Start(port int) error {
	mux := s.setupRoutes()
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  time.Duration(s.config.API.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(s.config.API.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logging.Infof("Classification API server listening on port %d", port)
	return server.ListenAndServe()
}

// setupRoutes configures all API routes.
func (s *ClassificationAPIServer) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /api/v1/classify", s.handleClassify)
	mux.HandleFunc("POST /api/v1/classify/batch", s.handleBatchClassify)
	mux.HandleFunc("POST /api/v1/diagnose", s.handleDiagnose)

	mux.HandleFunc("GET /api/v1/lanes", s.handleLanes)

	return mux
}

func (s *ClassificationAPIServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy", "service": "lane-router"}`))
}

// handleClassify handles single-query classification.
func (s *ClassificationAPIServer) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := s.parseJSONRequest(r, &req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	result := s.classificationSvc.Classify(req.Query)
	s.writeJSONResponse(w, http.StatusOK, redactBlocked(result))
}

// handleBatchClassify handles batch classification.
func (s *ClassificationAPIServer) handleBatchClassify(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req BatchClassifyRequest
	if err := s.parseJSONRequest(r, &req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}
	if len(req.Queries) == 0 {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_INPUT", "queries array cannot be empty")
		return
	}
	if max := s.config.API.MaxBatchSize; len(req.Queries) > max {
		s.writeErrorResponse(w, http.StatusBadRequest, "BATCH_TOO_LARGE",
			fmt.Sprintf("batch size %d exceeds limit %d", len(req.Queries), max))
		return
	}

	results := s.classificationSvc.ClassifyBatch(req.Queries)
	for i, result := range results {
		results[i] = redactBlocked(result)
	}

	s.writeJSONResponse(w, http.StatusOK, BatchClassifyResponse{
		Results:          results,
		TotalCount:       len(results),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	})
}

// handleDiagnose classifies the query and, only when it lands in the GPT
// lane, forwards it to the configured downstream model. Every other lane is
// returned unanswered so the caller applies its own lane policy.
func (s *ClassificationAPIServer) handleDiagnose(w http.ResponseWriter, r *http.Request) {
	var req DiagnoseRequest
	if err := s.parseJSONRequest(r, &req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	result := s.classificationSvc.Classify(req.Query)
	if result.Lane != classification.LaneGPT {
		s.writeJSONResponse(w, http.StatusOK, DiagnoseResponse{
			Lane:   result.Lane,
			Detail: "query did not classify to the GPT lane",
		})
		return
	}
	if s.diagnoseClient == nil {
		s.writeErrorResponse(w, http.StatusServiceUnavailable, "DIAGNOSE_UNAVAILABLE",
			"no downstream diagnostic endpoint configured")
		return
	}

	answer, err := s.diagnoseClient.Diagnose(r.Context(), req.Query, result.CanonicalEntities)
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadGateway, "DIAGNOSE_ERROR", err.Error())
		return
	}

	s.writeJSONResponse(w, http.StatusOK, DiagnoseResponse{Lane: result.Lane, Answer: answer})
}

// handleLanes returns lane descriptions for UI callers.
func (s *ClassificationAPIServer) handleLanes(w http.ResponseWriter, r *http.Request) {
	lanes := []LaneInfo{
		{classification.LaneBlocked, "adversarial or off-topic input; execute no action"},
		{classification.LaneUnknown, "not understood; ask the user to rephrase"},
		{classification.LaneNoLLM, "direct database lookup"},
		{classification.LaneRulesOnly, "actionable command; dispatch to a permission-checked handler"},
		{classification.LaneGPT, "diagnostic question; invoke the LLM-backed path"},
	}
	s.writeJSONResponse(w, http.StatusOK, map[string]interface{}{"lanes": lanes})
}

// redactBlocked strips the diagnostic reason from BLOCKED results before
// they leave the process. The full reason stays in logs and metrics.
func redactBlocked(result *services.Result) *services.Result {
	if result.Lane != classification.LaneBlocked {
		return result
	}
	redacted := *result
	redacted.LaneReason = blockedReason
	return &redacted
}

// Helper methods for JSON handling
func (s *ClassificationAPIServer) parseJSONRequest(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer r.Body.Close()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

func (s *ClassificationAPIServer) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Errorf("Failed to encode JSON response: %v", err)
	}
}

func (s *ClassificationAPIServer) writeErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) {
	errorResponse := map[string]interface{}{
		"error": map[string]interface{}{
			"code":      errorCode,
			"message":   message,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	}

	s.writeJSONResponse(w, statusCode, errorResponse)
}
