package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dormdeck/dormdeck-backend/internal/adapters/memory"
	"github.com/dormdeck/dormdeck-backend/internal/domain/entities"
	"github.com/dormdeck/dormdeck-backend/internal/domain/repositories"
	apperrors "github.com/dormdeck/dormdeck-backend/pkg/errors"
)

func newRegistered(t *testing.T) (*RegistryService, *entities.Provider) {
	t.Helper()
	svc := NewRegistryService(memory.NewProviderAdapter())
	first := &entities.Provider{
		Name:     "Midnight Munchies",
		Category: entities.CategoryFood,
		Location: "Hall 5",
		Contact:  "+2348011110001",
	}
	require.NoError(t, svc.Register(context.Background(), first))
	return svc, first
}

func TestRegister_AssignsIDAndActivates(t *testing.T) {
	_, first := newRegistered(t)

	assert.Equal(t, int64(1), first.ID)
	assert.True(t, first.IsActive)
	assert.False(t, first.CreatedAt.IsZero())
}

func TestRegister_RejectsDuplicateContact(t *testing.T) {
	svc, _ := newRegistered(t)

	dup := &entities.Provider{
		Name:     "Totally Different Shop",
		Category: entities.CategoryServices,
		Location: "Hall 1",
		Contact:  "+2348011110001",
	}
	err := svc.Register(context.Background(), dup)

	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	assert.Zero(t, dup.ID, "rejected registration must not allocate an id")
}

func TestRegister_RejectsDuplicateNameAndLocation(t *testing.T) {
	svc, _ := newRegistered(t)

	dup := &entities.Provider{
		Name:     "MIDNIGHT munchies",
		Category: entities.CategoryFood,
		Location: "hall 5",
		Contact:  "+2348099999999",
	}
	err := svc.Register(context.Background(), dup)

	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestRegister_SameNameDifferentLocationAllowed(t *testing.T) {
	svc, _ := newRegistered(t)

	other := &entities.Provider{
		Name:     "Midnight Munchies",
		Category: entities.CategoryFood,
		Location: "Hall 2",
		Contact:  "+2348022220002",
	}
	require.NoError(t, svc.Register(context.Background(), other))
	assert.Equal(t, int64(2), other.ID)
}

func TestRegister_RequiresName(t *testing.T) {
	svc := NewRegistryService(memory.NewProviderAdapter())

	err := svc.Register(context.Background(), &entities.Provider{Name: "   "})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
}

func TestRegister_NormalizesCategoryAndKeywords(t *testing.T) {
	svc := NewRegistryService(memory.NewProviderAdapter())

	p := &entities.Provider{
		Name:     "Print Hub",
		Category: "stationery",
		Keywords: []string{" print , binding", "photocopy "},
	}
	require.NoError(t, svc.Register(context.Background(), p))

	assert.Equal(t, entities.CategoryStationery, p.Category)
	assert.Equal(t, []string{"print", "binding", "photocopy"}, p.Keywords)
}

func TestListActive_FiltersDeactivated(t *testing.T) {
	svc, first := newRegistered(t)
	ctx := context.Background()

	second := &entities.Provider{
		Name:     "Print Hub",
		Category: entities.CategoryStationery,
		Location: "Hall 3",
		Contact:  "+2348011110002",
	}
	require.NoError(t, svc.Register(ctx, second))

	first.IsActive = false
	require.NoError(t, svc.Update(ctx, first))

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].ID)
}

func TestDelete_NotFound(t *testing.T) {
	svc := NewRegistryService(memory.NewProviderAdapter())

	err := svc.Delete(context.Background(), 42)

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestList_CategoryFilter(t *testing.T) {
	svc, _ := newRegistered(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, &entities.Provider{
		Name:     "Okada Express",
		Category: entities.CategoryTransport,
		Location: "Hall 1",
		Contact:  "+2348011110005",
	}))

	transport, err := svc.List(ctx, repositories.ProviderFilter{Category: "Transport"})
	require.NoError(t, err)
	require.Len(t, transport, 1)
	assert.Equal(t, "Okada Express", transport[0].Name)
}
