package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocationScore_ExactMatch(t *testing.T) {
	scorer := NewLocationScorer()

	assert.Equal(t, ProximityExact, scorer.Score("Hall 5", "Hall 5"))
	assert.Equal(t, ProximityExact, scorer.Score("  hall 5 ", "HALL 5"))
}

func TestLocationScore_RemoteProvider(t *testing.T) {
	scorer := NewLocationScorer()

	for _, tag := range []string{"remote", "Virtual", "ONLINE", "anywhere"} {
		assert.Equal(t, ProximityRemote, scorer.Score(tag, "Hall 5"), "tag %q", tag)
	}

	// Remote is a property of the provider, not the requester.
	assert.Equal(t, ProximityNone, scorer.Score("Hall 5", "remote"))
}

func TestLocationScore_OrdinalAdjacency(t *testing.T) {
	scorer := NewLocationScorer()

	assert.Equal(t, ProximityAdjacent, scorer.Score("H-4", "H-5"))
	assert.Equal(t, ProximityAdjacent, scorer.Score("H-6", "H-5"))
	assert.Equal(t, ProximityAdjacent, scorer.Score("Hall 4", "Block 5"))
	assert.Equal(t, ProximityNone, scorer.Score("H-12", "H-5"))
	assert.Equal(t, ProximityNone, scorer.Score("H-3", "H-5"))
}

func TestLocationScore_MultiDigitOrdinals(t *testing.T) {
	scorer := NewLocationScorer()

	assert.Equal(t, ProximityAdjacent, scorer.Score("H-12", "H-11"))
	assert.Equal(t, ProximityNone, scorer.Score("H-1", "H-12"))
}

func TestLocationScore_MissingTags(t *testing.T) {
	scorer := NewLocationScorer()

	assert.Equal(t, ProximityNone, scorer.Score("", "Hall 5"))
	assert.Equal(t, ProximityNone, scorer.Score("Hall 5", ""))
	assert.Equal(t, ProximityNone, scorer.Score("North Gate", "South Gate"))
}
