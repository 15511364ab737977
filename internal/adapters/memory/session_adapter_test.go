package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dormdeck/dormdeck-backend/internal/domain/entities"
	"github.com/dormdeck/dormdeck-backend/internal/domain/repositories"
	apperrors "github.com/dormdeck/dormdeck-backend/pkg/errors"
)

func TestSessionAdapter_CreateAssignsIDs(t *testing.T) {
	adapter := NewSessionAdapter()
	ctx := context.Background()

	first, err := adapter.Create(ctx, &entities.Session{CreatedAt: time.Now(), Query: "a", ResultKind: entities.MatchSmart})
	require.NoError(t, err)
	second, err := adapter.Create(ctx, &entities.Session{CreatedAt: time.Now(), Query: "b", ResultKind: entities.MatchFallback})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
}

func TestSessionAdapter_AppendActionUnknownSession(t *testing.T) {
	adapter := NewSessionAdapter()

	err := adapter.AppendAction(context.Background(), 42, &entities.Action{ID: "x", Kind: entities.ActionOther})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSessionAdapter_ListWindowIsInclusive(t *testing.T) {
	adapter := NewSessionAdapter()
	ctx := context.Background()

	base := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := adapter.Create(ctx, &entities.Session{
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
			Query:      "q",
			ResultKind: entities.MatchSmart,
		})
		require.NoError(t, err)
	}

	from := base
	to := base.Add(time.Hour)
	got, err := adapter.List(ctx, repositories.SessionFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Len(t, got, 2, "both boundary sessions are inside the window")
}

func TestSessionAdapter_ListReturnsCopies(t *testing.T) {
	adapter := NewSessionAdapter()
	ctx := context.Background()

	id, err := adapter.Create(ctx, &entities.Session{CreatedAt: time.Now(), Query: "q", ResultKind: entities.MatchSmart})
	require.NoError(t, err)
	require.NoError(t, adapter.AppendAction(ctx, id, &entities.Action{ID: "a1", Kind: entities.ActionContactClick}))

	got, err := adapter.List(ctx, repositories.SessionFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	got[0].Actions[0].Note = "mutated"
	got[0].Query = "mutated"

	again, err := adapter.List(ctx, repositories.SessionFilter{})
	require.NoError(t, err)
	assert.Equal(t, "q", again[0].Query)
	assert.Equal(t, "", again[0].Actions[0].Note)
}

func TestSessionAdapter_CreateDetachesCallerSlices(t *testing.T) {
	adapter := NewSessionAdapter()
	ctx := context.Background()

	shown := []int64{3}
	results := []entities.RankedMatch{
		{Provider: &entities.Provider{ID: 3, Name: "Print Hub"}, Score: 100, Kind: entities.MatchSmart},
	}
	id, err := adapter.Create(ctx, &entities.Session{
		CreatedAt:        time.Now(),
		Query:            "q",
		ResultKind:       entities.MatchSmart,
		ShownProviderIDs: shown,
		Results:          results,
	})
	require.NoError(t, err)

	shown[0] = 99
	results[0].Score = 0

	got, err := adapter.List(ctx, repositories.SessionFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []int64{3}, got[0].ShownProviderIDs)
	require.Len(t, got[0].Results, 1)
	assert.Equal(t, float64(100), got[0].Results[0].Score)
	assert.Equal(t, int64(1), id)
}
