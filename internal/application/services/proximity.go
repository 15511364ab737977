package services

import (
	"strconv"
	"strings"
)

// Proximity weights on the [0,1] scale.
const (
	ProximityExact    = 1.0
	ProximityRemote   = 0.9
	ProximityAdjacent = 0.4
	ProximityNone     = 0.0
)

// remoteTags are provider location tags that mean "reachable from anywhere".
// They stay always visible but rank slightly below an exact physical match.
var remoteTags = map[string]struct{}{
	"remote":   {},
	"virtual":  {},
	"online":   {},
	"anywhere": {},
}

// LocationScorer maps a provider's location tag and the requester's location
// tag to a proximity weight.
type LocationScorer struct{}

// NewLocationScorer creates a new scorer.
func NewLocationScorer() *LocationScorer {
	return &LocationScorer{}
}

// Score returns the proximity weight for a provider/requester tag pair.
// Matching is case- and whitespace-insensitive; two tags carrying embedded
// ordinals at most one apart (H-4 vs H-5) count as adjacent. Any parse
// failure means "no adjacency", not an error.
func (s *LocationScorer) Score(providerLoc, userLoc string) float64 {
	provider := strings.ToLower(strings.TrimSpace(providerLoc))
	user := strings.ToLower(strings.TrimSpace(userLoc))
	if provider == "" || user == "" {
		return ProximityNone
	}
	if provider == user {
		return ProximityExact
	}
	if _, ok := remoteTags[provider]; ok {
		return ProximityRemote
	}

	pn, okP := extractOrdinal(provider)
	un, okU := extractOrdinal(user)
	if okP && okU {
		diff := pn - un
		if diff < 0 {
			diff = -diff
		}
		if diff <= 1 {
			return ProximityAdjacent
		}
	}
	return ProximityNone
}

// extractOrdinal concatenates every digit in the tag and parses the result,
// so "H-12" yields 12.
func extractOrdinal(tag string) (int, bool) {
	var b strings.Builder
	for _, r := range tag {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, false
	}
	return n, true
}
