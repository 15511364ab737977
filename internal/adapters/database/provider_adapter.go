package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
	"github.com/dormdeck/dormdeck-backend/internal/domain/entities"
	"github.com/dormdeck/dormdeck-backend/internal/domain/repositories"
	"github.com/dormdeck/dormdeck-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/dormdeck/dormdeck-backend/pkg/errors"
)

var providerColumns = []interface{}{
	"id", "name", "category", "location", "open_time", "close_time",
	"description", "keywords", "contact", "form_url", "is_active",
	"created_at", "updated_at",
}

// ProviderAdapter implements ProviderRepository on PostgreSQL.
type ProviderAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProviderAdapter creates a new provider adapter.
func NewProviderAdapter(client *postgres.Client) repositories.ProviderRepository {
	return &ProviderAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create persists a provider; the id comes from the table's sequence, so
// allocation is atomic and strictly increasing.
func (a *ProviderAdapter) Create(ctx context.Context, provider *entities.Provider) error {
	record := goqu.Record{
		"name":        provider.Name,
		"category":    string(provider.Category),
		"location":    provider.Location,
		"open_time":   provider.OpenTime,
		"close_time":  provider.CloseTime,
		"description": provider.Description,
		"keywords":    pq.Array(provider.Keywords),
		"contact":     provider.Contact,
		"form_url":    provider.FormURL,
		"is_active":   provider.IsActive,
		"created_at":  provider.CreatedAt,
		"updated_at":  provider.UpdatedAt,
	}

	query, args, err := a.db.Insert("providers").Rows(record).Returning("id").ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&provider.ID); err != nil {
		return apperrors.NewInternalError("failed to create provider", err)
	}
	return nil
}

// GetByID retrieves a provider by id.
func (a *ProviderAdapter) GetByID(ctx context.Context, id int64) (*entities.Provider, error) {
	query, args, err := a.db.Select(providerColumns...).
		From("providers").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build select query", err)
	}

	provider, err := scanProvider(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("provider with id %d not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get provider", err)
	}
	return provider, nil
}

// List retrieves providers in registration order.
func (a *ProviderAdapter) List(ctx context.Context, filter repositories.ProviderFilter) ([]*entities.Provider, error) {
	ds := a.db.Select(providerColumns...).From("providers").Order(goqu.I("id").Asc())
	if filter.IsActive != nil {
		ds = ds.Where(goqu.Ex{"is_active": *filter.IsActive})
	}
	if filter.Category != "" {
		ds = ds.Where(goqu.Ex{"category": filter.Category})
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list providers", err)
	}
	defer rows.Close()

	var providers []*entities.Provider
	for rows.Next() {
		provider, err := scanProvider(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan provider", err)
		}
		providers = append(providers, provider)
	}
	return providers, rows.Err()
}

// Update replaces a provider's mutable fields.
func (a *ProviderAdapter) Update(ctx context.Context, provider *entities.Provider) error {
	record := goqu.Record{
		"name":        provider.Name,
		"category":    string(provider.Category),
		"location":    provider.Location,
		"open_time":   provider.OpenTime,
		"close_time":  provider.CloseTime,
		"description": provider.Description,
		"keywords":    pq.Array(provider.Keywords),
		"contact":     provider.Contact,
		"form_url":    provider.FormURL,
		"is_active":   provider.IsActive,
		"updated_at":  provider.UpdatedAt,
	}

	query, args, err := a.db.Update("providers").
		Set(record).
		Where(goqu.Ex{"id": provider.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update provider", err)
	}
	return requireRowAffected(result, fmt.Sprintf("provider with id %d not found", provider.ID))
}

// Delete removes a provider.
func (a *ProviderAdapter) Delete(ctx context.Context, id int64) error {
	query, args, err := a.db.Delete("providers").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete provider", err)
	}
	return requireRowAffected(result, fmt.Sprintf("provider with id %d not found", id))
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProvider(row rowScanner) (*entities.Provider, error) {
	provider := &entities.Provider{}
	err := row.Scan(
		&provider.ID,
		&provider.Name,
		&provider.Category,
		&provider.Location,
		&provider.OpenTime,
		&provider.CloseTime,
		&provider.Description,
		pq.Array(&provider.Keywords),
		&provider.Contact,
		&provider.FormURL,
		&provider.IsActive,
		&provider.CreatedAt,
		&provider.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return provider, nil
}

func requireRowAffected(result sql.Result, notFoundMessage string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to read rows affected", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(notFoundMessage)
	}
	return nil
}
