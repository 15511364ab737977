package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseActionKind(t *testing.T) {
	for _, valid := range []string{"contact_click", "form_click", "manual_confirm", "other"} {
		kind, ok := ParseActionKind(valid)
		require.True(t, ok, "kind %q", valid)
		assert.Equal(t, ActionKind(valid), kind)
	}

	_, ok := ParseActionKind("wa_click")
	assert.False(t, ok)
	_, ok = ParseActionKind("")
	assert.False(t, ok)
}

func TestIsConversion(t *testing.T) {
	assert.True(t, ActionContactClick.IsConversion())
	assert.True(t, ActionFormClick.IsConversion())
	assert.False(t, ActionManualConfirm.IsConversion())
	assert.False(t, ActionOther.IsConversion())
}

func TestHasConversion(t *testing.T) {
	s := &Session{Actions: []Action{{Kind: ActionManualConfirm}}}
	assert.False(t, s.HasConversion())

	s.Actions = append(s.Actions, Action{Kind: ActionFormClick})
	assert.True(t, s.HasConversion())

	empty := &Session{}
	assert.False(t, empty.HasConversion())
}
