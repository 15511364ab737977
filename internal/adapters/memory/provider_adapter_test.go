package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dormdeck/dormdeck-backend/internal/domain/entities"
	"github.com/dormdeck/dormdeck-backend/internal/domain/repositories"
	apperrors "github.com/dormdeck/dormdeck-backend/pkg/errors"
)

func TestProviderAdapter_CreateAssignsMonotonicIDs(t *testing.T) {
	adapter := NewProviderAdapter()
	ctx := context.Background()

	a := &entities.Provider{Name: "A"}
	b := &entities.Provider{Name: "B"}
	require.NoError(t, adapter.Create(ctx, a))
	require.NoError(t, adapter.Create(ctx, b))

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
}

func TestProviderAdapter_GetByIDReturnsCopy(t *testing.T) {
	adapter := NewProviderAdapter()
	ctx := context.Background()

	orig := &entities.Provider{Name: "A", Keywords: []string{"x"}}
	require.NoError(t, adapter.Create(ctx, orig))

	got, err := adapter.GetByID(ctx, orig.ID)
	require.NoError(t, err)
	got.Name = "mutated"
	got.Keywords[0] = "mutated"

	again, err := adapter.GetByID(ctx, orig.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", again.Name)
	assert.Equal(t, []string{"x"}, again.Keywords)
}

func TestProviderAdapter_GetByIDNotFound(t *testing.T) {
	adapter := NewProviderAdapter()

	_, err := adapter.GetByID(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestProviderAdapter_ListPreservesRegistrationOrder(t *testing.T) {
	adapter := NewProviderAdapter()
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		require.NoError(t, adapter.Create(ctx, &entities.Provider{Name: name, IsActive: true}))
	}
	require.NoError(t, adapter.Delete(ctx, 2))

	got, err := adapter.List(ctx, repositories.ProviderFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Name)
	assert.Equal(t, "third", got[1].Name)
}

func TestProviderAdapter_UpdateNotFound(t *testing.T) {
	adapter := NewProviderAdapter()

	err := adapter.Update(context.Background(), &entities.Provider{ID: 7, Name: "ghost"})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestProviderAdapter_DeletedIDsAreNotReused(t *testing.T) {
	adapter := NewProviderAdapter()
	ctx := context.Background()

	a := &entities.Provider{Name: "A"}
	require.NoError(t, adapter.Create(ctx, a))
	require.NoError(t, adapter.Delete(ctx, a.ID))

	b := &entities.Provider{Name: "B"}
	require.NoError(t, adapter.Create(ctx, b))
	assert.Equal(t, int64(2), b.ID)
}
