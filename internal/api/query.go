package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/opsmind/opsmind/internal/workflow"
)

// maxQuestionLength is the maximum allowed question length in bytes.
const maxQuestionLength = 4000

// QueryProcessor runs the question answering pipeline. Implemented by
// *workflow.Orchestrator.
type QueryProcessor interface {
	Ready() bool
	ProcessQuery(ctx context.Context, q workflow.Query) (*workflow.Result, error)
}

// queryHandler holds dependencies for the query endpoint.
type queryHandler struct {
	processor QueryProcessor
	logger    *slog.Logger
}

// queryRequest is the body of POST /api/v1/query.
//
// UseEnterpriseAPI is a nullable bool: absent lets the keyword heuristic
// decide, true forces enrichment, false suppresses it.
type queryRequest struct {
	Question         string `json:"question"`
	K                int    `json:"k"`
	ValidateAnswer   bool   `json:"validate_answer"`
	UseEnterpriseAPI *bool  `json:"use_enterprise_api"`
	ReturnSources    *bool  `json:"return_sources"`
}

// query handles POST /api/v1/query.
func (h *queryHandler) query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", h.logger)
		return
	}

	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "missing_question", "question is required", h.logger)
		return
	}
	if len(req.Question) > maxQuestionLength {
		writeError(w, http.StatusBadRequest, "question_too_long", "question must be 4000 characters or fewer", h.logger)
		return
	}
	if req.K < 0 || req.K > workflow.MaxTopK {
		writeError(w, http.StatusBadRequest, "invalid_k", "k must be between 1 and 20", h.logger)
		return
	}

	result, err := h.processor.ProcessQuery(r.Context(), workflow.Query{
		Question:   req.Question,
		TopK:       req.K,
		Validate:   req.ValidateAnswer,
		Enterprise: workflow.ModeFromBoolPtr(req.UseEnterpriseAPI),
	})
	if err != nil {
		if errors.Is(err, workflow.ErrNotReady) {
			writeError(w, http.StatusServiceUnavailable, "not_ready",
				"query service not ready, ensure the vector store is initialized", h.logger)
			return
		}
		h.logger.Error("processing query", "error", err)
		writeError(w, http.StatusInternalServerError, "query_failed", "failed to process query", h.logger)
		return
	}

	if !result.Success {
		h.logger.Error("query pipeline fault", "error", result.Error, "question", req.Question)
		writeError(w, http.StatusInternalServerError, "query_failed", result.Error, h.logger)
		return
	}

	// return_sources defaults to true; false strips the documents from the
	// response without affecting the pipeline.
	if req.ReturnSources != nil && !*req.ReturnSources {
		result.SourceDocuments = nil
	}

	writeJSON(w, http.StatusOK, result, h.logger)
}
