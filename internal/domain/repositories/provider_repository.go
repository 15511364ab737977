package repositories

import (
	"context"

	"github.com/dormdeck/dormdeck-backend/internal/domain/entities"
)

// ProviderRepository defines storage operations for the provider registry.
// The engine only requires read consistency "as of" the moment of ranking;
// mutations are owned by the onboarding/admin surfaces.
type ProviderRepository interface {
	// Create persists a new provider and assigns a fresh monotonic id.
	Create(ctx context.Context, provider *entities.Provider) error

	// GetByID retrieves a provider by id. Returns a NotFound error when absent.
	GetByID(ctx context.Context, id int64) (*entities.Provider, error)

	// List retrieves providers in registration order.
	List(ctx context.Context, filter ProviderFilter) ([]*entities.Provider, error)

	// Update replaces a provider's mutable fields. NotFound when absent.
	Update(ctx context.Context, provider *entities.Provider) error

	// Delete removes a provider. NotFound when absent.
	Delete(ctx context.Context, id int64) error
}

// ProviderFilter narrows List results.
type ProviderFilter struct {
	IsActive *bool
	Category string
}
