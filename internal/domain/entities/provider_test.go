package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	got, ok := ParseCategory("food")
	require.True(t, ok)
	assert.Equal(t, CategoryFood, got)

	got, ok = ParseCategory("TRANSPORT")
	require.True(t, ok)
	assert.Equal(t, CategoryTransport, got)

	_, ok = ParseCategory("groceries")
	assert.False(t, ok)

	_, ok = ParseCategory("")
	assert.False(t, ok)
}

func TestTagSet(t *testing.T) {
	p := &Provider{
		Category:    CategoryFood,
		Description: "Late snacks (and drinks), to go.",
		Keywords:    []string{"Noodles", "maggi"},
	}

	tags := p.TagSet()

	for _, want := range []string{"noodles", "maggi", "food", "late", "snacks", "drinks"} {
		_, ok := tags[want]
		assert.True(t, ok, "tag set should contain %q", want)
	}

	// Short filler words from the description are not tags.
	_, ok := tags["to"]
	assert.False(t, ok)
	_, ok = tags["go"]
	assert.False(t, ok)
}
