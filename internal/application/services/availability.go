package services

import (
	"strings"
	"time"
)

// clockTime is minutes since midnight. alwaysOpen marks the "24/7" token.
type clockTime struct {
	minutes    int
	alwaysOpen bool
}

var alwaysOpenSpellings = map[string]struct{}{
	"24/7":        {},
	"247":         {},
	"always":      {},
	"always open": {},
}

var clockLayouts = []string{"15:04", "15:04:05", "15.04", "1504"}

// parseClock parses a textual open/close spec. The boolean reports whether
// the spec was understood at all; an unparseable spec means the provider is
// treated as closed, never open.
func parseClock(spec string) (clockTime, bool) {
	s := strings.ToLower(strings.TrimSpace(spec))
	if s == "" {
		return clockTime{}, false
	}
	if _, ok := alwaysOpenSpellings[s]; ok {
		return clockTime{alwaysOpen: true}, true
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return clockTime{minutes: t.Hour()*60 + t.Minute()}, true
		}
	}
	return clockTime{}, false
}

// AvailabilityEvaluator decides whether a provider is open at a given
// instant from its textual open/close specs.
type AvailabilityEvaluator struct{}

// NewAvailabilityEvaluator creates a new evaluator.
func NewAvailabilityEvaluator() *AvailabilityEvaluator {
	return &AvailabilityEvaluator{}
}

// IsOpen reports whether the [openSpec, closeSpec] window contains now.
//
// Rules, in order:
//   - either side spelled as an always-open token: open
//   - either side missing or unparseable: closed (fail-safe)
//   - open == close: open, by convention
//   - open < close: open iff open <= now <= close (inclusive both ends)
//   - open > close (midnight crossing): open iff now >= open or now <= close
//
// now is injected so callers stay deterministic and testable.
func (e *AvailabilityEvaluator) IsOpen(openSpec, closeSpec string, now time.Time) bool {
	o, okOpen := parseClock(openSpec)
	c, okClose := parseClock(closeSpec)

	if (okOpen && o.alwaysOpen) || (okClose && c.alwaysOpen) {
		return true
	}
	if !okOpen || !okClose {
		return false
	}
	if o.minutes == c.minutes {
		return true
	}

	nowMin := now.Hour()*60 + now.Minute()
	if o.minutes < c.minutes {
		return o.minutes <= nowMin && nowMin <= c.minutes
	}
	return nowMin >= o.minutes || nowMin <= c.minutes
}
