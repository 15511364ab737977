package entities

import (
	"time"
)

// MatchKind discriminates how a result set was produced.
type MatchKind string

const (
	// MatchSmart is a result produced because semantic relevance was detected.
	MatchSmart MatchKind = "smart"
	// MatchFallback is a "popular and open" result produced when nothing
	// semantically relevant existed.
	MatchFallback MatchKind = "fallback"
)

// RankedMatch is one scored entry of a result set. It is computed fresh per
// request and only persisted as part of a session snapshot.
type RankedMatch struct {
	Provider *Provider `json:"provider"`
	Score    float64   `json:"score"`
	IsOpen   bool      `json:"is_open"`
	Kind     MatchKind `json:"kind"`
}

// ActionKind is the closed set of recordable post-search interactions.
type ActionKind string

const (
	ActionContactClick  ActionKind = "contact_click"
	ActionFormClick     ActionKind = "form_click"
	ActionManualConfirm ActionKind = "manual_confirm"
	ActionOther         ActionKind = "other"
)

// ParseActionKind validates a textual action kind.
func ParseActionKind(s string) (ActionKind, bool) {
	switch ActionKind(s) {
	case ActionContactClick, ActionFormClick, ActionManualConfirm, ActionOther:
		return ActionKind(s), true
	}
	return "", false
}

// IsConversion reports whether the action counts as a high-intent connection
// for the conversion-rate metric.
func (k ActionKind) IsConversion() bool {
	return k == ActionContactClick || k == ActionFormClick
}

// Action is a recorded user interaction belonging to exactly one session.
type Action struct {
	ID         string     `json:"id" db:"id"`
	SessionID  int64      `json:"session_id" db:"session_id"`
	Timestamp  time.Time  `json:"timestamp" db:"timestamp"`
	Kind       ActionKind `json:"kind" db:"kind"`
	ProviderID *int64     `json:"provider_id,omitempty" db:"provider_id"`
	Note       string     `json:"note,omitempty" db:"note"`
}

// Session is one search event plus every action recorded against it.
// A session is created exactly once per search and only ever mutated by
// appending actions.
type Session struct {
	ID               int64         `json:"id" db:"id"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	Query            string        `json:"query" db:"query"`
	Location         string        `json:"location" db:"location"`
	ResultKind       MatchKind     `json:"result_kind" db:"result_kind"`
	ShownProviderIDs []int64       `json:"shown_provider_ids" db:"-"`
	Results          []RankedMatch `json:"results" db:"-"`
	Actions          []Action      `json:"actions" db:"-"`
}

// HasConversion reports whether any recorded action is a conversion.
func (s *Session) HasConversion() bool {
	for _, a := range s.Actions {
		if a.Kind.IsConversion() {
			return true
		}
	}
	return false
}
