// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jamaine1984/indira/internal/domain/types"
)

// ScoreDependencies defines the interface for pair-score operations.
type ScoreDependencies interface {
	ComputeScore(ctx context.Context, callerID, sourceID, targetID string) (types.ScoreResult, error)
}

// ScoreHandler handles single pair-score requests.
type ScoreHandler struct {
	deps ScoreDependencies
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps ScoreDependencies) *ScoreHandler {
	return &ScoreHandler{deps: deps}
}

// scoreRequest mirrors the request schema for POST /v1/score.
type scoreRequest struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
}

func (r scoreRequest) validate() error {
	switch {
	case strings.TrimSpace(r.SourceID) == "":
		return ErrMissingSourceID
	case strings.TrimSpace(r.TargetID) == "":
		return ErrMissingTargetID
	}
	return nil
}

// HandlePostScore handles POST /v1/score requests.
func (h *ScoreHandler) HandlePostScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	result, err := h.deps.ComputeScore(r.Context(), callerID(r), req.SourceID, req.TargetID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
