package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dormdeck/dormdeck-backend/internal/domain/entities"
	"github.com/dormdeck/dormdeck-backend/internal/infrastructure/observability"
)

// Composite-score weights on the 0-100 scale.
const (
	semanticWeightExact   = 1.0
	semanticWeightKeyword = 0.6
	semanticPoints        = 50.0
	proximityPoints       = 30.0
	openPoints            = 20.0
	smartScoreThreshold   = 10.0
	maxResults            = 3

	fallbackOpenPoints      = 50.0
	fallbackClosedPoints    = 10.0
	fallbackProximityPoints = 50.0
)

const (
	smartMessage    = "Here are the best matches for your request!"
	fallbackMessage = "No exact matches, showing popular open spots nearby."
	emptyMessage    = "No services registered yet."
)

// RankingResult is the outcome of one ranking request.
type RankingResult struct {
	Kind    entities.MatchKind     `json:"kind"`
	Message string                 `json:"message"`
	Results []entities.RankedMatch `json:"results"`
	Intent  *entities.IntentResult `json:"intent"`
}

// ShownProviderIDs returns the ids of the providers in display order.
func (r *RankingResult) ShownProviderIDs() []int64 {
	ids := make([]int64, 0, len(r.Results))
	for _, m := range r.Results {
		if m.Provider != nil {
			ids = append(ids, m.Provider.ID)
		}
	}
	return ids
}

// RankingService turns a query plus a coarse location into a ranked
// short-list. A smart pass gates on semantic relevance; when it yields
// nothing, a fallback pass favors open providers near the requester.
type RankingService struct {
	intents      *IntentService
	locations    *LocationScorer
	availability *AvailabilityEvaluator
	now          func() time.Time
}

// NewRankingService wires a ranking policy. now may be nil and defaults to
// time.Now; tests inject a fixed clock.
func NewRankingService(intents *IntentService, locations *LocationScorer, availability *AvailabilityEvaluator, now func() time.Time) *RankingService {
	if now == nil {
		now = time.Now
	}
	return &RankingService{
		intents:      intents,
		locations:    locations,
		availability: availability,
		now:          now,
	}
}

// Rank scores, filters, and sorts providers for the query. It never fails:
// classification degrades internally and an empty registry yields an
// explicit empty fallback result.
func (s *RankingService) Rank(ctx context.Context, query, userLocation string, providers []*entities.Provider) *RankingResult {
	intent := s.intents.Classify(ctx, query)
	now := s.now()

	observability.LoggerFromContext(ctx).Debug().
		Str("query", query).
		Str("location", userLocation).
		Str("category", string(intent.Category)).
		Strs("keywords", intent.Keywords).
		Msg("ranking request")

	smart := s.smartPass(intent, userLocation, providers, now)
	if len(smart) > 0 {
		return &RankingResult{
			Kind:    entities.MatchSmart,
			Message: smartMessage,
			Results: smart,
			Intent:  intent,
		}
	}

	fallback := s.fallbackPass(userLocation, providers, now)
	message := fallbackMessage
	if len(fallback) == 0 {
		message = emptyMessage
	}
	return &RankingResult{
		Kind:    entities.MatchFallback,
		Message: message,
		Results: fallback,
		Intent:  intent,
	}
}

// smartPass keeps only semantically relevant providers: relevance is a hard
// gate, not a tie-breaker, so a geographically ideal but irrelevant provider
// is never shown here.
func (s *RankingService) smartPass(intent *entities.IntentResult, userLocation string, providers []*entities.Provider, now time.Time) []entities.RankedMatch {
	queryKeywords := intent.KeywordSet()
	matches := make([]entities.RankedMatch, 0, len(providers))

	for _, p := range providers {
		semantic := 0.0
		switch {
		case strings.EqualFold(string(p.Category), string(intent.Category)):
			semantic = semanticWeightExact
		case intersects(p.TagSet(), queryKeywords):
			semantic = semanticWeightKeyword
		default:
			continue
		}

		open := s.availability.IsOpen(p.OpenTime, p.CloseTime, now)
		score := semantic*semanticPoints + s.locations.Score(p.Location, userLocation)*proximityPoints
		if open {
			score += openPoints
		}
		if score <= smartScoreThreshold {
			continue
		}

		matches = append(matches, entities.RankedMatch{
			Provider: p,
			Score:    score,
			IsOpen:   open,
			Kind:     entities.MatchSmart,
		})
	}

	sortByScore(matches)
	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches
}

// fallbackPass scores every provider on openness and proximity alone.
func (s *RankingService) fallbackPass(userLocation string, providers []*entities.Provider, now time.Time) []entities.RankedMatch {
	matches := make([]entities.RankedMatch, 0, len(providers))
	for _, p := range providers {
		open := s.availability.IsOpen(p.OpenTime, p.CloseTime, now)
		score := fallbackClosedPoints
		if open {
			score = fallbackOpenPoints
		}
		score += s.locations.Score(p.Location, userLocation) * fallbackProximityPoints

		matches = append(matches, entities.RankedMatch{
			Provider: p,
			Score:    score,
			IsOpen:   open,
			Kind:     entities.MatchFallback,
		})
	}

	sortByScore(matches)
	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches
}

// sortByScore sorts descending by score, stable on ties so registry
// order breaks them.
func sortByScore(matches []entities.RankedMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
}

func intersects(a, b map[string]struct{}) bool {
	if len(b) < len(a) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}
