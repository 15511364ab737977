package repositories

import (
	"context"
	"time"

	"github.com/dormdeck/dormdeck-backend/internal/domain/entities"
)

// SessionRepository defines the durable search-event log. Any backend works
// as long as id allocation is atomic and strictly increasing, action appends
// are append-only, and reads can be range-filtered by creation time.
type SessionRepository interface {
	// Create persists a new session with an empty action list and returns the
	// assigned id. No two sessions ever receive the same id.
	Create(ctx context.Context, session *entities.Session) (int64, error)

	// AppendAction appends an action to an existing session. Returns a
	// NotFound error when the session does not exist; it never creates a
	// session implicitly.
	AppendAction(ctx context.Context, sessionID int64, action *entities.Action) error

	// List returns sessions (with actions) whose creation timestamp lies
	// within the filter bounds, inclusive at both ends. Nil bounds are open.
	List(ctx context.Context, filter SessionFilter) ([]*entities.Session, error)
}

// SessionFilter bounds a session listing by creation time. Both comparisons
// are inclusive, matching how the metrics engine documents its windows.
type SessionFilter struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether ts falls inside the filter window.
func (f SessionFilter) Contains(ts time.Time) bool {
	if f.From != nil && ts.Before(*f.From) {
		return false
	}
	if f.To != nil && ts.After(*f.To) {
		return false
	}
	return true
}
