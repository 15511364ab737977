package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/dormdeck/dormdeck-backend/internal/domain/entities"
	"github.com/dormdeck/dormdeck-backend/internal/domain/repositories"
	"github.com/dormdeck/dormdeck-backend/internal/infrastructure/observability"
)

// SessionService records search sessions and the actions users take on
// their results. It is a logging surface: appends must never break the
// caller's happy path.
type SessionService struct {
	repo repositories.SessionRepository
}

// NewSessionService creates a new session service.
func NewSessionService(repo repositories.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

// Record persists one search event with a snapshot of its ranked results
// and returns the assigned session id.
func (s *SessionService) Record(ctx context.Context, query, location string, result *RankingResult) (int64, error) {
	session := &entities.Session{
		CreatedAt:        time.Now(),
		Query:            query,
		Location:         location,
		ResultKind:       result.Kind,
		ShownProviderIDs: result.ShownProviderIDs(),
		Results:          result.Results,
	}
	return s.repo.Create(ctx, session)
}

// LogAction appends an action to a session. It reports false instead of
// failing when the session does not exist or storage misbehaves; it never
// creates a session implicitly.
func (s *SessionService) LogAction(ctx context.Context, sessionID int64, kind entities.ActionKind, providerID *int64, note string) bool {
	action := &entities.Action{
		ID:         uuid.New().String(),
		SessionID:  sessionID,
		Timestamp:  time.Now(),
		Kind:       kind,
		ProviderID: providerID,
		Note:       note,
	}

	if err := s.repo.AppendAction(ctx, sessionID, action); err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Int64("session_id", sessionID).
			Str("kind", string(kind)).
			Err(err).
			Msg("action not recorded")
		return false
	}
	return true
}

// List returns the sessions inside the window, inclusive at both ends.
func (s *SessionService) List(ctx context.Context, filter repositories.SessionFilter) ([]*entities.Session, error) {
	return s.repo.List(ctx, filter)
}
