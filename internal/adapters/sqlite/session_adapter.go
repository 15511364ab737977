package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dormdeck/dormdeck-backend/internal/domain/entities"
	"github.com/dormdeck/dormdeck-backend/internal/domain/repositories"
	sqliteclient "github.com/dormdeck/dormdeck-backend/internal/infrastructure/clients/sqlite"
	apperrors "github.com/dormdeck/dormdeck-backend/pkg/errors"
)

// SessionAdapter implements SessionRepository on the embedded SQLite file.
// AUTOINCREMENT gives strictly increasing session ids even across deletes.
type SessionAdapter struct {
	client *sqliteclient.Client
}

// NewSessionAdapter creates a new session adapter.
func NewSessionAdapter(client *sqliteclient.Client) repositories.SessionRepository {
	return &SessionAdapter{client: client}
}

// Create persists a session with an empty action list and returns its id.
func (a *SessionAdapter) Create(ctx context.Context, session *entities.Session) (int64, error) {
	snapshot, err := json.Marshal(session.Results)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to serialize result snapshot", err)
	}
	shownIDs, err := json.Marshal(session.ShownProviderIDs)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to serialize shown ids", err)
	}

	result, err := a.client.DB().ExecContext(ctx, `
		INSERT INTO sessions (created_at, query, location, result_kind, shown_provider_ids, results_snapshot)
		VALUES (?, ?, ?, ?, ?, ?)`,
		session.CreatedAt,
		session.Query,
		session.Location,
		string(session.ResultKind),
		string(shownIDs),
		string(snapshot),
	)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to create session", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to read session id", err)
	}
	session.ID = id
	return id, nil
}

// AppendAction appends one action to an existing session.
func (a *SessionAdapter) AppendAction(ctx context.Context, sessionID int64, action *entities.Action) error {
	var exists int
	err := a.client.DB().QueryRowContext(ctx,
		`SELECT 1 FROM sessions WHERE id = ?`, sessionID).Scan(&exists)
	if err == sql.ErrNoRows {
		return apperrors.NewNotFoundError(fmt.Sprintf("session with id %d not found", sessionID))
	}
	if err != nil {
		return apperrors.NewInternalError("failed to check session", err)
	}

	_, err = a.client.DB().ExecContext(ctx, `
		INSERT INTO session_actions (id, session_id, timestamp, kind, provider_id, note)
		VALUES (?, ?, ?, ?, ?, ?)`,
		action.ID,
		sessionID,
		action.Timestamp,
		string(action.Kind),
		action.ProviderID,
		action.Note,
	)
	if err != nil {
		return apperrors.NewInternalError("failed to append action", err)
	}
	return nil
}

// List returns sessions with their actions, inclusive at both bounds.
func (a *SessionAdapter) List(ctx context.Context, filter repositories.SessionFilter) ([]*entities.Session, error) {
	query := `
		SELECT id, created_at, query, location, result_kind, shown_provider_ids, results_snapshot
		FROM sessions WHERE 1=1`
	args := []interface{}{}
	if filter.From != nil {
		query += " AND created_at >= ?"
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		query += " AND created_at <= ?"
		args = append(args, *filter.To)
	}
	query += " ORDER BY id ASC"

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list sessions", err)
	}
	defer rows.Close()

	var sessions []*entities.Session
	byID := make(map[int64]*entities.Session)
	for rows.Next() {
		session := &entities.Session{}
		var shownIDs, snapshot string
		err := rows.Scan(
			&session.ID,
			&session.CreatedAt,
			&session.Query,
			&session.Location,
			&session.ResultKind,
			&shownIDs,
			&snapshot,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan session", err)
		}
		if shownIDs != "" {
			if err := json.Unmarshal([]byte(shownIDs), &session.ShownProviderIDs); err != nil {
				return nil, apperrors.NewInternalError("failed to decode shown ids", err)
			}
		}
		if snapshot != "" {
			if err := json.Unmarshal([]byte(snapshot), &session.Results); err != nil {
				return nil, apperrors.NewInternalError("failed to decode result snapshot", err)
			}
		}
		sessions = append(sessions, session)
		byID[session.ID] = session
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read sessions", err)
	}
	if len(sessions) == 0 {
		return sessions, nil
	}

	actionRows, err := a.client.DB().QueryContext(ctx, `
		SELECT id, session_id, timestamp, kind, provider_id, note
		FROM session_actions ORDER BY timestamp ASC`)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list actions", err)
	}
	defer actionRows.Close()

	for actionRows.Next() {
		action := entities.Action{}
		err := actionRows.Scan(
			&action.ID,
			&action.SessionID,
			&action.Timestamp,
			&action.Kind,
			&action.ProviderID,
			&action.Note,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan action", err)
		}
		if session, ok := byID[action.SessionID]; ok {
			session.Actions = append(session.Actions, action)
		}
	}
	return sessions, actionRows.Err()
}
