package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/dormdeck/dormdeck-backend/internal/domain/entities"
	"github.com/dormdeck/dormdeck-backend/internal/domain/providers"
	"github.com/dormdeck/dormdeck-backend/internal/infrastructure/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	defaultIntentCacheSize = 512
	maxIntentKeywords      = 5
	neutralUrgency         = 5
	classifyTimeout        = 25 * time.Second
)

// ClassificationError captures an external-classification failure. It never
// escapes Classify: the public path substitutes the heuristic result, and
// the error is kept for logging and telemetry only.
type ClassificationError struct {
	Stage string // "call" or "parse"
	Err   error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("intent classification failed during %s: %v", e.Stage, e.Err)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// IntentService classifies free-text queries into an IntentResult through an
// external collaborator, memoizing per normalized query text. For a given
// text within the cache's retention window classification is treated as
// referentially transparent; drift of the external model is an accepted
// tradeoff.
type IntentService struct {
	provider providers.IntentProvider
	memo     *lru.Cache[string, entities.IntentResult]
	shared   providers.CacheProvider // optional second level, nil-safe
	ttl      time.Duration
}

// NewIntentService creates a classifier with a fresh bounded memo. cacheSize
// <= 0 falls back to the default capacity. shared may be nil.
func NewIntentService(provider providers.IntentProvider, cacheSize int, shared providers.CacheProvider, ttl time.Duration) *IntentService {
	if cacheSize <= 0 {
		cacheSize = defaultIntentCacheSize
	}
	memo, _ := lru.New[string, entities.IntentResult](cacheSize)
	return &IntentService{
		provider: provider,
		memo:     memo,
		shared:   shared,
		ttl:      ttl,
	}
}

// NormalizeQuery collapses internal whitespace and trims, so trivially
// different spellings of the same request share a cache entry.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

// Classify returns an IntentResult for the query. It never fails: every
// external-call, timeout, or parse error is replaced with the deterministic
// local heuristic.
func (s *IntentService) Classify(ctx context.Context, query string) *entities.IntentResult {
	normalized := NormalizeQuery(query)
	if normalized == "" {
		result := heuristicIntent(normalized)
		return &result
	}

	if cached, ok := s.memo.Get(normalized); ok {
		recordIntentCache(ctx, true)
		return &cached
	}
	if cached, ok := s.sharedGet(ctx, normalized); ok {
		recordIntentCache(ctx, true)
		s.memo.Add(normalized, cached)
		return &cached
	}
	recordIntentCache(ctx, false)

	result, err := s.classifyExternal(ctx, normalized)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Str("query", normalized).
			Err(err).
			Msg("external classification failed, using heuristic")
		recordIntentFallback(ctx, err)
		fallback := heuristicIntent(normalized)
		return &fallback
	}

	s.memo.Add(normalized, *result)
	s.sharedSet(ctx, normalized, *result)
	return result
}

// classifyExternal is the fallible half of Classify.
func (s *IntentService) classifyExternal(ctx context.Context, normalized string) (*entities.IntentResult, error) {
	if s.provider == nil {
		return nil, &ClassificationError{Stage: "call", Err: fmt.Errorf("no intent provider configured")}
	}

	ctx, cancel := context.WithTimeout(ctx, classifyTimeout)
	defer cancel()

	text, err := s.provider.Generate(ctx, buildIntentPrompt(normalized))
	if err != nil {
		return nil, &ClassificationError{Stage: "call", Err: err}
	}

	var raw rawIntent
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		obj, ok := extractJSONObject(text)
		if !ok {
			return nil, &ClassificationError{Stage: "parse", Err: fmt.Errorf("no JSON object in response")}
		}
		if err := json.Unmarshal([]byte(obj), &raw); err != nil {
			return nil, &ClassificationError{Stage: "parse", Err: err}
		}
	}

	result := raw.sanitize()
	return &result, nil
}

func buildIntentPrompt(normalized string) string {
	var b strings.Builder
	b.WriteString("You are a campus-concierge assistant. Analyze the student query and return strict JSON.\n")
	b.WriteString(`Query: """` + normalized + `"""` + "\n\n")
	b.WriteString("Return ONLY a JSON object with:\n")
	b.WriteString(`- category: one of ["Food","Stationery","Services","Medicine","Transport","General"]` + "\n")
	b.WriteString("- intent: short 2-4 word summary\n")
	b.WriteString("- urgency: integer 1-10\n")
	b.WriteString("- keywords: list of up to 5 keywords (lowercase)\n")
	return b.String()
}

// rawIntent is the wire shape of the collaborator's response.
type rawIntent struct {
	Category string   `json:"category"`
	Intent   string   `json:"intent"`
	Urgency  int      `json:"urgency"`
	Keywords []string `json:"keywords"`
}

// sanitize enforces the IntentResult bounds: closed category set, urgency in
// [1,10], at most five lowercase keywords.
func (r rawIntent) sanitize() entities.IntentResult {
	category, ok := entities.ParseCategory(r.Category)
	if !ok {
		category = entities.CategoryGeneral
	}

	urgency := r.Urgency
	if urgency < 1 {
		urgency = 1
	}
	if urgency > 10 {
		urgency = 10
	}

	keywords := make([]string, 0, maxIntentKeywords)
	for _, k := range r.Keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		keywords = append(keywords, k)
		if len(keywords) == maxIntentKeywords {
			break
		}
	}

	return entities.IntentResult{
		Category: category,
		Intent:   strings.TrimSpace(r.Intent),
		Urgency:  urgency,
		Keywords: keywords,
	}
}

// heuristicIntent is the deterministic local fallback: General category, the
// first few lowercased words as the label, neutral urgency, and the first
// few punctuation-stripped tokens as keywords.
func heuristicIntent(normalized string) entities.IntentResult {
	words := make([]string, 0, maxIntentKeywords)
	for _, w := range strings.Fields(strings.ToLower(normalized)) {
		w = strings.Trim(w, ".,!?")
		if w == "" {
			continue
		}
		words = append(words, w)
		if len(words) == maxIntentKeywords {
			break
		}
	}

	label := strings.Join(words[:min(3, len(words))], " ")
	if label == "" {
		label = "unknown"
	}

	return entities.IntentResult{
		Category: entities.CategoryGeneral,
		Intent:   label,
		Urgency:  neutralUrgency,
		Keywords: words,
	}
}

// extractJSONObject returns the first top-level brace-delimited object in
// text, tolerating surrounding prose. Braces inside JSON strings are ignored.
func extractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

func (s *IntentService) sharedGet(ctx context.Context, normalized string) (entities.IntentResult, bool) {
	if s.shared == nil {
		return entities.IntentResult{}, false
	}
	data, err := s.shared.Get(ctx, "intent:"+normalized)
	if err != nil {
		return entities.IntentResult{}, false
	}
	var result entities.IntentResult
	if err := json.Unmarshal(data, &result); err != nil {
		return entities.IntentResult{}, false
	}
	return result, true
}

func (s *IntentService) sharedSet(ctx context.Context, normalized string, result entities.IntentResult) {
	if s.shared == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	_ = s.shared.Set(ctx, "intent:"+normalized, data, s.ttl)
}

var (
	intentMetricsOnce  sync.Once
	intentCacheHits    metric.Int64Counter
	intentCacheMisses  metric.Int64Counter
	intentFallbackHits metric.Int64Counter
)

func initIntentMetrics() {
	meter := otel.Meter("github.com/dormdeck/dormdeck-backend/intent")
	if c, err := meter.Int64Counter("intent.cache.hit.count",
		metric.WithDescription("Intent memo hits")); err == nil {
		intentCacheHits = c
	}
	if c, err := meter.Int64Counter("intent.cache.miss.count",
		metric.WithDescription("Intent memo misses")); err == nil {
		intentCacheMisses = c
	}
	if c, err := meter.Int64Counter("intent.fallback.count",
		metric.WithDescription("Classifications served by the local heuristic")); err == nil {
		intentFallbackHits = c
	}
}

func recordIntentCache(ctx context.Context, hit bool) {
	intentMetricsOnce.Do(initIntentMetrics)
	if hit {
		if intentCacheHits != nil {
			intentCacheHits.Add(ctx, 1)
		}
		return
	}
	if intentCacheMisses != nil {
		intentCacheMisses.Add(ctx, 1)
	}
}

func recordIntentFallback(ctx context.Context, err error) {
	intentMetricsOnce.Do(initIntentMetrics)
	if intentFallbackHits == nil {
		return
	}
	stage := "call"
	var cerr *ClassificationError
	if errors.As(err, &cerr) {
		stage = cerr.Stage
	}
	intentFallbackHits.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}
