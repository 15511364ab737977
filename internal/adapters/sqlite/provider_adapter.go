package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dormdeck/dormdeck-backend/internal/domain/entities"
	"github.com/dormdeck/dormdeck-backend/internal/domain/repositories"
	sqliteclient "github.com/dormdeck/dormdeck-backend/internal/infrastructure/clients/sqlite"
	apperrors "github.com/dormdeck/dormdeck-backend/pkg/errors"
)

// ProviderAdapter implements ProviderRepository on the embedded SQLite file.
// Keyword lists are stored as JSON text since SQLite has no array type.
type ProviderAdapter struct {
	client *sqliteclient.Client
}

// NewProviderAdapter creates a new provider adapter.
func NewProviderAdapter(client *sqliteclient.Client) repositories.ProviderRepository {
	return &ProviderAdapter{client: client}
}

// Create persists a provider; AUTOINCREMENT guarantees monotonic ids.
func (a *ProviderAdapter) Create(ctx context.Context, provider *entities.Provider) error {
	keywords, err := json.Marshal(provider.Keywords)
	if err != nil {
		return apperrors.NewInternalError("failed to encode keywords", err)
	}

	result, err := a.client.DB().ExecContext(ctx, `
		INSERT INTO providers (name, category, location, open_time, close_time,
			description, keywords, contact, form_url, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		provider.Name,
		string(provider.Category),
		provider.Location,
		provider.OpenTime,
		provider.CloseTime,
		provider.Description,
		string(keywords),
		provider.Contact,
		provider.FormURL,
		provider.IsActive,
		provider.CreatedAt,
		provider.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewInternalError("failed to create provider", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.NewInternalError("failed to read provider id", err)
	}
	provider.ID = id
	return nil
}

// GetByID retrieves a provider by id.
func (a *ProviderAdapter) GetByID(ctx context.Context, id int64) (*entities.Provider, error) {
	row := a.client.DB().QueryRowContext(ctx, `
		SELECT id, name, category, location, open_time, close_time,
			description, keywords, contact, form_url, is_active, created_at, updated_at
		FROM providers WHERE id = ?`, id)

	provider, err := scanProvider(row)
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
	query := `
		SELECT id, name, category, location, open_time, close_time,
			description, keywords, contact, form_url, is_active, created_at, updated_at
		FROM providers WHERE 1=1`
	args := []interface{}{}
	if filter.IsActive != nil {
		query += " AND is_active = ?"
		args = append(args, *filter.IsActive)
	}
	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	query += " ORDER BY id ASC"

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
	keywords, err := json.Marshal(provider.Keywords)
	if err != nil {
		return apperrors.NewInternalError("failed to encode keywords", err)
	}

	result, err := a.client.DB().ExecContext(ctx, `
		UPDATE providers SET name = ?, category = ?, location = ?, open_time = ?,
			close_time = ?, description = ?, keywords = ?, contact = ?, form_url = ?,
			is_active = ?, updated_at = ?
		WHERE id = ?`,
		provider.Name,
		string(provider.Category),
		provider.Location,
		provider.OpenTime,
		provider.CloseTime,
		provider.Description,
		string(keywords),
		provider.Contact,
		provider.FormURL,
		provider.IsActive,
		provider.UpdatedAt,
		provider.ID,
	)
	if err != nil {
		return apperrors.NewInternalError("failed to update provider", err)
	}
	return requireRowAffected(result, fmt.Sprintf("provider with id %d not found", provider.ID))
}

// Delete removes a provider.
func (a *ProviderAdapter) Delete(ctx context.Context, id int64) error {
	result, err := a.client.DB().ExecContext(ctx, `DELETE FROM providers WHERE id = ?`, id)
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
	var keywords string
	err := row.Scan(
		&provider.ID,
		&provider.Name,
		&provider.Category,
		&provider.Location,
		&provider.OpenTime,
		&provider.CloseTime,
		&provider.Description,
		&keywords,
		&provider.Contact,
		&provider.FormURL,
		&provider.IsActive,
		&provider.CreatedAt,
		&provider.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if keywords != "" {
		if err := json.Unmarshal([]byte(keywords), &provider.Keywords); err != nil {
			return nil, err
		}
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
