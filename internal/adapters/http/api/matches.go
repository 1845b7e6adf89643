// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/jamaine1984/indira/internal/domain/types"
)

// MatchesDependencies defines the interface for discovery operations.
type MatchesDependencies interface {
	DiscoverCandidates(ctx context.Context, callerID, sourceID string, limit int) ([]types.Match, error)
}

// MatchesHandler handles candidate discovery requests.
type MatchesHandler struct {
	deps MatchesDependencies
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps MatchesDependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

// matchesResponse mirrors the response schema for GET /v1/matches.
type matchesResponse struct {
	Matches []types.Match `json:"matches"`
	Count   int           `json:"count"`
}

// HandleGetMatches handles GET /v1/matches/{source_id}?limit=N requests.
func (h *MatchesHandler) HandleGetMatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sourceID := strings.TrimPrefix(r.URL.Path, "/v1/matches/")
	if sourceID == "" || strings.Contains(sourceID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	// limit is optional; the service applies the default and cap.
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrInvalidLimit)
			return
		}
		limit = n
	}

	matches, err := h.deps.DiscoverCandidates(r.Context(), callerID(r), sourceID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if matches == nil {
		matches = []types.Match{}
	}
	writeJSON(w, http.StatusOK, matchesResponse{Matches: matches, Count: len(matches)})
}
