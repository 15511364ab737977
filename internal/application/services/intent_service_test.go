package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dormdeck/dormdeck-backend/internal/domain/entities"
)

// stubIntentProvider returns a canned response and counts calls.
type stubIntentProvider struct {
	response string
	err      error
	calls    atomic.Int64
}

func (p *stubIntentProvider) Generate(ctx context.Context, prompt string) (string, error) {
	p.calls.Add(1)
	if p.err != nil {
		return "", p.err
	}
	return p.response, nil
}

func TestClassify_ParsesProviderResponse(t *testing.T) {
	provider := &stubIntentProvider{
		response: `{"category":"Food","intent":"order snacks","urgency":7,"keywords":["snacks","noodles"]}`,
	}
	svc := NewIntentService(provider, 8, nil, 0)

	result := svc.Classify(context.Background(), "I need snacks urgently")

	require.NotNil(t, result)
	assert.Equal(t, entities.CategoryFood, result.Category)
	assert.Equal(t, "order snacks", result.Intent)
	assert.Equal(t, 7, result.Urgency)
	assert.Equal(t, []string{"snacks", "noodles"}, result.Keywords)
}

func TestClassify_MemoizesPerNormalizedQuery(t *testing.T) {
	provider := &stubIntentProvider{
		response: `{"category":"Food","intent":"order snacks","urgency":7,"keywords":["snacks"]}`,
	}
	svc := NewIntentService(provider, 8, nil, 0)

	first := svc.Classify(context.Background(), "need   snacks")
	second := svc.Classify(context.Background(), "  need snacks ")

	assert.Equal(t, first.Category, second.Category)
	assert.Equal(t, int64(1), provider.calls.Load(), "normalized duplicates must share one external call")
}

func TestClassify_FallsBackOnProviderError(t *testing.T) {
	provider := &stubIntentProvider{err: errors.New("upstream unavailable")}
	svc := NewIntentService(provider, 8, nil, 0)

	result := svc.Classify(context.Background(), "Where can I print my assignment?")

	assert.Equal(t, entities.CategoryGeneral, result.Category)
	assert.Equal(t, "where can i", result.Intent)
	assert.Equal(t, neutralUrgency, result.Urgency)
	assert.Equal(t, []string{"where", "can", "i", "print", "my"}, result.Keywords)
}

func TestClassify_NoProviderUsesHeuristic(t *testing.T) {
	svc := NewIntentService(nil, 8, nil, 0)

	result := svc.Classify(context.Background(), "laundry!")

	assert.Equal(t, entities.CategoryGeneral, result.Category)
	assert.Equal(t, []string{"laundry"}, result.Keywords)
}

func TestClassify_ExtractsObjectFromProse(t *testing.T) {
	provider := &stubIntentProvider{
		response: "Sure! Here is the analysis:\n```json\n{\"category\":\"Transport\",\"intent\":\"get a ride\",\"urgency\":4,\"keywords\":[\"ride\"]}\n```\nLet me know if you need more.",
	}
	svc := NewIntentService(provider, 8, nil, 0)

	result := svc.Classify(context.Background(), "ride to town")

	assert.Equal(t, entities.CategoryTransport, result.Category)
	assert.Equal(t, "get a ride", result.Intent)
}

func TestClassify_SanitizesOutOfRangeFields(t *testing.T) {
	provider := &stubIntentProvider{
		response: `{"category":"Groceries","intent":" buy milk ","urgency":42,"keywords":["A","B","C","D","E","F","  "]}`,
	}
	svc := NewIntentService(provider, 8, nil, 0)

	result := svc.Classify(context.Background(), "buy milk")

	assert.Equal(t, entities.CategoryGeneral, result.Category, "unknown categories collapse to General")
	assert.Equal(t, "buy milk", result.Intent)
	assert.Equal(t, 10, result.Urgency)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, result.Keywords)
}

func TestClassify_GarbledResponseFallsBack(t *testing.T) {
	provider := &stubIntentProvider{response: "no structured data here"}
	svc := NewIntentService(provider, 8, nil, 0)

	result := svc.Classify(context.Background(), "fix my fan")

	assert.Equal(t, entities.CategoryGeneral, result.Category)
	assert.Equal(t, "fix my fan", result.Intent)
}

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "need snacks now", NormalizeQuery("  need \t snacks\n now "))
	assert.Equal(t, "", NormalizeQuery("   "))
}

func TestExtractJSONObject_IgnoresBracesInStrings(t *testing.T) {
	obj, ok := extractJSONObject(`prefix {"intent":"fix {broken} fan","urgency":2} suffix`)

	require.True(t, ok)
	assert.Equal(t, `{"intent":"fix {broken} fan","urgency":2}`, obj)
}
