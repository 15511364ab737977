package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dormdeck/dormdeck-backend/internal/application/services"
	"github.com/dormdeck/dormdeck-backend/internal/infrastructure/observability"
)

// SearchHandler serves the concierge search endpoint: rank the registry for
// a query, persist the session, and hand back the session id with the
// results so the client can report actions against it.
type SearchHandler struct {
	registry *services.RegistryService
	ranking  *services.RankingService
	sessions *services.SessionService
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(registry *services.RegistryService, ranking *services.RankingService, sessions *services.SessionService) *SearchHandler {
	return &SearchHandler{
		registry: registry,
		ranking:  ranking,
		sessions: sessions,
	}
}

type searchRequest struct {
	Query    string `json:"query"`
	Location string `json:"location"`
}

// Search handles POST /api/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var payload searchRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if strings.TrimSpace(payload.Query) == "" {
		respondWithError(w, http.StatusBadRequest, "query is required")
		return
	}

	providers, err := h.registry.ListActive(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	result := h.ranking.Rank(r.Context(), payload.Query, payload.Location, providers)

	sessionID, err := h.sessions.Record(r.Context(), payload.Query, payload.Location, result)
	if err != nil {
		// The search itself succeeded; losing the audit record should not
		// hide the results from the user.
		observability.LoggerFromContext(r.Context()).Error().
			Err(err).
			Msg("failed to record search session")
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"kind":       result.Kind,
		"message":    result.Message,
		"results":    result.Results,
	})
}
