package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dormdeck/dormdeck-backend/internal/domain/entities"
	"github.com/dormdeck/dormdeck-backend/internal/domain/repositories"
	apperrors "github.com/dormdeck/dormdeck-backend/pkg/errors"
)

// RegistryService owns provider onboarding and admin mutations. The matching
// engine itself only reads the registry.
type RegistryService struct {
	repo repositories.ProviderRepository
}

// NewRegistryService creates a new registry service.
func NewRegistryService(repo repositories.ProviderRepository) *RegistryService {
	return &RegistryService{repo: repo}
}

// Register validates and persists a new provider. Duplicate detection runs
// before any write, so a rejected registration never allocates an id or
// leaves a partial record:
//   - same contact handle as an existing entry, or
//   - same name and location (case-insensitive) as an existing entry.
func (s *RegistryService) Register(ctx context.Context, provider *entities.Provider) error {
	provider.Name = strings.TrimSpace(provider.Name)
	provider.Location = strings.TrimSpace(provider.Location)
	provider.Contact = strings.TrimSpace(provider.Contact)
	provider.Keywords = NormalizeKeywords(provider.Keywords)

	if provider.Name == "" {
		return apperrors.NewValidationError("provider name is required")
	}

	if category, ok := entities.ParseCategory(string(provider.Category)); ok {
		provider.Category = category
	}

	existing, err := s.repo.List(ctx, repositories.ProviderFilter{})
	if err != nil {
		return err
	}
	for _, other := range existing {
		if provider.Contact != "" && strings.TrimSpace(other.Contact) == provider.Contact {
			return apperrors.NewConflictError(
				fmt.Sprintf("a provider with this contact handle already exists (id=%d)", other.ID))
		}
		if provider.Name != "" && provider.Location != "" &&
			strings.EqualFold(strings.TrimSpace(other.Name), provider.Name) &&
			strings.EqualFold(strings.TrimSpace(other.Location), provider.Location) {
			return apperrors.NewConflictError(
				fmt.Sprintf("a provider with this name already exists at this location (id=%d)", other.ID))
		}
	}

	now := time.Now()
	provider.IsActive = true
	provider.CreatedAt = now
	provider.UpdatedAt = now

	return s.repo.Create(ctx, provider)
}

// Get returns a provider by id, or a NotFound error.
func (s *RegistryService) Get(ctx context.Context, id int64) (*entities.Provider, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns providers in registration order.
func (s *RegistryService) List(ctx context.Context, filter repositories.ProviderFilter) ([]*entities.Provider, error) {
	return s.repo.List(ctx, filter)
}

// ListActive returns the providers eligible for ranking.
func (s *RegistryService) ListActive(ctx context.Context) ([]*entities.Provider, error) {
	active := true
	return s.repo.List(ctx, repositories.ProviderFilter{IsActive: &active})
}

// Update replaces a provider's mutable fields. NotFound when absent.
func (s *RegistryService) Update(ctx context.Context, provider *entities.Provider) error {
	provider.Keywords = NormalizeKeywords(provider.Keywords)
	if category, ok := entities.ParseCategory(string(provider.Category)); ok {
		provider.Category = category
	}
	provider.UpdatedAt = time.Now()
	return s.repo.Update(ctx, provider)
}

// Delete removes a provider. NotFound when absent.
func (s *RegistryService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// NormalizeKeywords trims entries and splits any comma-separated values, so
// onboarding forms can submit either shape.
func NormalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		for _, part := range strings.Split(k, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
