package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dormdeck/dormdeck-backend/internal/application/services"
)

// ExportHandler streams the session and action log as CSV for offline
// analysis.
type ExportHandler struct {
	export *services.ExportService
}

// NewExportHandler creates a new export handler.
func NewExportHandler(export *services.ExportService) *ExportHandler {
	return &ExportHandler{export: export}
}

// SessionsCSV handles GET /api/export/sessions.csv
func (h *ExportHandler) SessionsCSV(w http.ResponseWriter, r *http.Request) {
	filter, err := sessionFilterFromQuery(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "start/end must be RFC3339 timestamps")
		return
	}

	data, err := h.export.SessionsCSV(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	filename := fmt.Sprintf("sessions-%s.csv", time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
