package handlers

import (
	"net/http"
	"time"

	"github.com/dormdeck/dormdeck-backend/internal/application/services"
	"github.com/dormdeck/dormdeck-backend/internal/domain/repositories"
)

// MetricsHandler serves the quality metrics computed over logged sessions.
type MetricsHandler struct {
	metrics *services.MetricsService
}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler(metrics *services.MetricsService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// sessionFilterFromQuery parses optional RFC3339 start/end bounds.
func sessionFilterFromQuery(r *http.Request) (repositories.SessionFilter, error) {
	var filter repositories.SessionFilter
	if raw := r.URL.Query().Get("start"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, err
		}
		filter.From = &from
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, err
		}
		filter.To = &to
	}
	return filter, nil
}

// Get handles GET /api/metrics
func (h *MetricsHandler) Get(w http.ResponseWriter, r *http.Request) {
	filter, err := sessionFilterFromQuery(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "start/end must be RFC3339 timestamps")
		return
	}

	report, err := h.metrics.ComputeAll(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}
