package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dormdeck/dormdeck-backend/internal/application/services"
	"github.com/dormdeck/dormdeck-backend/internal/domain/entities"
)

// SessionHandler records user actions against a previously returned session.
type SessionHandler struct {
	sessions *services.SessionService
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(sessions *services.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type actionRequest struct {
	Kind       string `json:"kind"`
	ProviderID *int64 `json:"provider_id,omitempty"`
	Note       string `json:"note,omitempty"`
}

// LogAction handles POST /api/sessions/{id}/actions
func (h *SessionHandler) LogAction(w http.ResponseWriter, r *http.Request) {
	sessionID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid session ID")
		return
	}

	var payload actionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	kind, ok := entities.ParseActionKind(payload.Kind)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "unknown action kind: "+payload.Kind)
		return
	}

	logged := h.sessions.LogAction(r.Context(), sessionID, kind, payload.ProviderID, payload.Note)
	respondWithJSON(w, http.StatusOK, map[string]bool{
		"logged": logged,
	})
}
