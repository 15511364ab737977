package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dormdeck/dormdeck-backend/internal/adapters/memory"
	"github.com/dormdeck/dormdeck-backend/internal/domain/entities"
	"github.com/dormdeck/dormdeck-backend/internal/domain/repositories"
)

func TestRecord_SnapshotsResults(t *testing.T) {
	repo := memory.NewSessionAdapter()
	svc := NewSessionService(repo)
	ctx := context.Background()

	result := &RankingResult{
		Kind: entities.MatchSmart,
		Results: []entities.RankedMatch{
			{Provider: &entities.Provider{ID: 3, Name: "Print Hub"}, Score: 100, IsOpen: true, Kind: entities.MatchSmart},
		},
	}

	id, err := svc.Record(ctx, "print assignment", "Hall 3", result)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	stored, err := svc.List(ctx, repositories.SessionFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "print assignment", stored[0].Query)
	assert.Equal(t, []int64{3}, stored[0].ShownProviderIDs)
	require.Len(t, stored[0].Results, 1)
	assert.Equal(t, "Print Hub", stored[0].Results[0].Provider.Name)
}

func TestLogAction_UnknownSessionReportsFalse(t *testing.T) {
	svc := NewSessionService(memory.NewSessionAdapter())

	logged := svc.LogAction(context.Background(), 999, entities.ActionContactClick, nil, "")

	assert.False(t, logged)
}

func TestLogAction_AssignsUniqueIDs(t *testing.T) {
	repo := memory.NewSessionAdapter()
	svc := NewSessionService(repo)
	ctx := context.Background()

	id, err := svc.Record(ctx, "q", "Hall 1", &RankingResult{Kind: entities.MatchFallback})
	require.NoError(t, err)

	assert.True(t, svc.LogAction(ctx, id, entities.ActionContactClick, nil, ""))
	assert.True(t, svc.LogAction(ctx, id, entities.ActionOther, nil, "note"))

	stored, err := svc.List(ctx, repositories.SessionFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Len(t, stored[0].Actions, 2)
	assert.NotEqual(t, stored[0].Actions[0].ID, stored[0].Actions[1].ID)
	assert.NotEmpty(t, stored[0].Actions[0].ID)
}
