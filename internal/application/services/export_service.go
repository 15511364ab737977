package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/dormdeck/dormdeck-backend/internal/domain/entities"
	"github.com/dormdeck/dormdeck-backend/internal/domain/repositories"
	apperrors "github.com/dormdeck/dormdeck-backend/pkg/errors"
)

// ExportService projects the session log into tabular form for operators.
// It is a pure read-side transformation of the session log.
type ExportService struct {
	sessions repositories.SessionRepository
}

// NewExportService creates a new export service.
func NewExportService(sessions repositories.SessionRepository) *ExportService {
	return &ExportService{sessions: sessions}
}

var exportHeader = []string{
	"session_id", "session_ts", "query", "user_location", "result_kind",
	"action_ts", "action_kind", "provider_id", "note",
}

// SessionsCSV renders sessions joined with their actions: one row per
// action, or a single placeholder row for an action-less session.
func (s *ExportService) SessionsCSV(ctx context.Context, filter repositories.SessionFilter) ([]byte, error) {
	sessions, err := s.sessions.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, apperrors.NewInternalError("failed to write csv header", err)
	}

	for _, session := range sessions {
		if len(session.Actions) == 0 {
			if err := w.Write(sessionRow(session, nil)); err != nil {
				return nil, apperrors.NewInternalError("failed to write csv row", err)
			}
			continue
		}
		for i := range session.Actions {
			if err := w.Write(sessionRow(session, &session.Actions[i])); err != nil {
				return nil, apperrors.NewInternalError("failed to write csv row", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperrors.NewInternalError("failed to flush csv", err)
	}
	return buf.Bytes(), nil
}

func sessionRow(session *entities.Session, action *entities.Action) []string {
	row := []string{
		strconv.FormatInt(session.ID, 10),
		session.CreatedAt.Format(time.RFC3339),
		session.Query,
		session.Location,
		string(session.ResultKind),
		"", "", "", "",
	}
	if action != nil {
		row[5] = action.Timestamp.Format(time.RFC3339)
		row[6] = string(action.Kind)
		if action.ProviderID != nil {
			row[7] = strconv.FormatInt(*action.ProviderID, 10)
		}
		row[8] = action.Note
	}
	return row
}
