package providers

import (
	"context"
)

// IntentProvider is the external intent-classification collaborator. It is
// given a fully built prompt and returns the raw model text, which is
// expected (but not guaranteed) to contain exactly one JSON object. Parsing,
// extraction, and failure recovery live in the intent service.
type IntentProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
