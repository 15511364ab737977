package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/dormdeck/dormdeck-backend/internal/domain/entities"
	"github.com/dormdeck/dormdeck-backend/internal/domain/repositories"
	apperrors "github.com/dormdeck/dormdeck-backend/pkg/errors"
)

// ProviderAdapter implements ProviderRepository in process memory. It backs
// tests and the registry-less demo mode; ids are allocated from a counter
// under the same lock that guards the map.
type ProviderAdapter struct {
	mu        sync.RWMutex
	nextID    int64
	order     []int64
	providers map[int64]*entities.Provider
}

// NewProviderAdapter creates an empty in-memory registry.
func NewProviderAdapter() *ProviderAdapter {
	return &ProviderAdapter{providers: make(map[int64]*entities.Provider)}
}

// Create assigns the next id and stores a copy of the provider.
func (a *ProviderAdapter) Create(_ context.Context, provider *entities.Provider) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.nextID++
	provider.ID = a.nextID
	stored := clone(provider)
	a.providers[provider.ID] = stored
	a.order = append(a.order, provider.ID)
	return nil
}

// GetByID retrieves a provider by id.
func (a *ProviderAdapter) GetByID(_ context.Context, id int64) (*entities.Provider, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	provider, ok := a.providers[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("provider with id %d not found", id))
	}
	return clone(provider), nil
}

// List retrieves providers in registration order.
func (a *ProviderAdapter) List(_ context.Context, filter repositories.ProviderFilter) ([]*entities.Provider, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var providers []*entities.Provider
	for _, id := range a.order {
		provider, ok := a.providers[id]
		if !ok {
			continue
		}
		if filter.IsActive != nil && provider.IsActive != *filter.IsActive {
			continue
		}
		if filter.Category != "" && string(provider.Category) != filter.Category {
			continue
		}
		providers = append(providers, clone(provider))
	}
	return providers, nil
}

// Update replaces a provider's mutable fields.
func (a *ProviderAdapter) Update(_ context.Context, provider *entities.Provider) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.providers[provider.ID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("provider with id %d not found", provider.ID))
	}
	a.providers[provider.ID] = clone(provider)
	return nil
}

// Delete removes a provider.
func (a *ProviderAdapter) Delete(_ context.Context, id int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.providers[id]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("provider with id %d not found", id))
	}
	delete(a.providers, id)
	for i, existing := range a.order {
		if existing == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	return nil
}

func clone(p *entities.Provider) *entities.Provider {
	c := *p
	c.Keywords = append([]string(nil), p.Keywords...)
	return &c
}
