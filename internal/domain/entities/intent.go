package entities

// IntentResult is the classification of a single normalized query.
// Urgency is bounded to [1,10] and keywords to five lowercase terms;
// sanitization happens in the intent service before a result is cached.
type IntentResult struct {
	Category Category `json:"category"`
	Intent   string   `json:"intent"`
	Urgency  int      `json:"urgency"`
	Keywords []string `json:"keywords"`
}

// KeywordSet returns the keywords as a set for intersection tests.
func (r *IntentResult) KeywordSet() map[string]struct{} {
	set := make(map[string]struct{}, len(r.Keywords))
	for _, k := range r.Keywords {
		if k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}
