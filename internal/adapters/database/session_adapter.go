package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
	"github.com/dormdeck/dormdeck-backend/internal/domain/entities"
	"github.com/dormdeck/dormdeck-backend/internal/domain/repositories"
	"github.com/dormdeck/dormdeck-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/dormdeck/dormdeck-backend/pkg/errors"
)

const pqForeignKeyViolation = "23503"

// SessionAdapter implements SessionRepository on PostgreSQL. Session ids
// come from a bigserial column, so allocation is atomic and strictly
// increasing; action appends are single inserts guarded by a foreign key.
type SessionAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSessionAdapter creates a new session adapter.
func NewSessionAdapter(client *postgres.Client) repositories.SessionRepository {
	return &SessionAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create persists a session with an empty action list and returns its id.
func (a *SessionAdapter) Create(ctx context.Context, session *entities.Session) (int64, error) {
	snapshot, err := json.Marshal(session.Results)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to serialize result snapshot", err)
	}

	record := goqu.Record{
		"created_at":         session.CreatedAt,
		"query":              session.Query,
		"location":           session.Location,
		"result_kind":        string(session.ResultKind),
		"shown_provider_ids": pq.Array(session.ShownProviderIDs),
		"results_snapshot":   snapshot,
	}

	query, args, err := a.db.Insert("sessions").Rows(record).Returning("id").ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&session.ID); err != nil {
		return 0, apperrors.NewInternalError("failed to create session", err)
	}
	return session.ID, nil
}

// AppendAction appends one action. A foreign-key violation means the session
// does not exist and maps to NotFound.
func (a *SessionAdapter) AppendAction(ctx context.Context, sessionID int64, action *entities.Action) error {
	record := goqu.Record{
		"id":          action.ID,
		"session_id":  sessionID,
		"timestamp":   action.Timestamp,
		"kind":        string(action.Kind),
		"provider_id": action.ProviderID,
		"note":        action.Note,
	}

	query, args, err := a.db.Insert("session_actions").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqForeignKeyViolation {
			return apperrors.NewNotFoundError(fmt.Sprintf("session with id %d not found", sessionID))
		}
		return apperrors.NewInternalError("failed to append action", err)
	}
	return nil
}

// List returns sessions with their actions, filtered by creation time
// inclusively at both ends.
func (a *SessionAdapter) List(ctx context.Context, filter repositories.SessionFilter) ([]*entities.Session, error) {
	ds := a.db.Select(
		"id", "created_at", "query", "location", "result_kind",
		"shown_provider_ids", "results_snapshot",
	).From("sessions").Order(goqu.I("id").Asc())
	if filter.From != nil {
		ds = ds.Where(goqu.C("created_at").Gte(*filter.From))
	}
	if filter.To != nil {
		ds = ds.Where(goqu.C("created_at").Lte(*filter.To))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list sessions", err)
	}
	defer rows.Close()

	var sessions []*entities.Session
	byID := make(map[int64]*entities.Session)
	for rows.Next() {
		session := &entities.Session{}
		var snapshot []byte
		var shownIDs pq.Int64Array
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
		session.ShownProviderIDs = shownIDs
		if len(snapshot) > 0 {
			if err := json.Unmarshal(snapshot, &session.Results); err != nil {
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

	if err := a.attachActions(ctx, byID); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (a *SessionAdapter) attachActions(ctx context.Context, sessions map[int64]*entities.Session) error {
	ids := make([]int64, 0, len(sessions))
	for id := range sessions {
		ids = append(ids, id)
	}

	query, args, err := a.db.Select(
		"id", "session_id", "timestamp", "kind", "provider_id", "note",
	).From("session_actions").
		Where(goqu.Ex{"session_id": ids}).
		Order(goqu.I("timestamp").Asc()).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build actions query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to list actions", err)
	}
	defer rows.Close()

	for rows.Next() {
		action := entities.Action{}
		err := rows.Scan(
			&action.ID,
			&action.SessionID,
			&action.Timestamp,
			&action.Kind,
			&action.ProviderID,
			&action.Note,
		)
		if err != nil {
			return apperrors.NewInternalError("failed to scan action", err)
		}
		if session, ok := sessions[action.SessionID]; ok {
			session.Actions = append(session.Actions, action)
		}
	}
	return rows.Err()
}
