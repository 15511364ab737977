package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/dormdeck/dormdeck-backend/internal/domain/entities"
	"github.com/dormdeck/dormdeck-backend/internal/domain/repositories"
	apperrors "github.com/dormdeck/dormdeck-backend/pkg/errors"
)

// SessionAdapter implements SessionRepository in process memory. Id
// allocation and appends share one mutex, so no two sessions ever receive
// the same id and action appends never race.
type SessionAdapter struct {
	mu       sync.RWMutex
	nextID   int64
	order    []int64
	sessions map[int64]*entities.Session
}

// NewSessionAdapter creates an empty in-memory session log.
func NewSessionAdapter() *SessionAdapter {
	return &SessionAdapter{sessions: make(map[int64]*entities.Session)}
}

// Create assigns the next id and stores the session with no actions.
func (a *SessionAdapter) Create(_ context.Context, session *entities.Session) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.nextID++
	session.ID = a.nextID
	stored := *session
	stored.Actions = nil
	stored.ShownProviderIDs = append([]int64(nil), session.ShownProviderIDs...)
	stored.Results = append([]entities.RankedMatch(nil), session.Results...)
	a.sessions[session.ID] = &stored
	a.order = append(a.order, session.ID)
	return session.ID, nil
}

// AppendAction appends one action to an existing session.
func (a *SessionAdapter) AppendAction(_ context.Context, sessionID int64, action *entities.Action) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	session, ok := a.sessions[sessionID]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("session with id %d not found", sessionID))
	}
	session.Actions = append(session.Actions, *action)
	return nil
}

// List returns sessions inside the window, inclusive at both ends.
func (a *SessionAdapter) List(_ context.Context, filter repositories.SessionFilter) ([]*entities.Session, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var sessions []*entities.Session
	for _, id := range a.order {
		session := a.sessions[id]
		if !filter.Contains(session.CreatedAt) {
			continue
		}
		copied := *session
		copied.Actions = append([]entities.Action(nil), session.Actions...)
		copied.ShownProviderIDs = append([]int64(nil), session.ShownProviderIDs...)
		copied.Results = append([]entities.RankedMatch(nil), session.Results...)
		sessions = append(sessions, &copied)
	}
	return sessions, nil
}
