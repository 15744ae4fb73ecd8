package configuration

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gestaozabele/midia/internal/db"
	"github.com/gestaozabele/midia/internal/media"
)

// Repository provê acesso à tabela media_configurations.
type Repository struct {
	db db.Querier
}

// NewRepository cria um novo repositório de configurações.
func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

const selectColumns = `tenant_id, uuid, name, description, enabled, properties`

// Get busca configuração pelo tenant e UUID.
func (r *Repository) Get(ctx context.Context, tenantID uuid.UUID, configurationUUID string) (*media.ConfigurationEntry, error) {
	const query = `
        SELECT ` + selectColumns + `
        FROM media_configurations
        WHERE tenant_id = $1 AND uuid = $2
    `

	return scanEntry(r.db.QueryRow(ctx, query, tenantID, configurationUUID))
}

// List devolve as configurações do tenant ordenadas por nome.
func (r *Repository) List(ctx context.Context, tenantID uuid.UUID) ([]media.ConfigurationEntry, error) {
	const query = `
        SELECT ` + selectColumns + `
        FROM media_configurations
        WHERE tenant_id = $1
        ORDER BY name
    `

	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []media.ConfigurationEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return entries, nil
}

// Create insere a configuração e devolve os dados persistidos.
func (r *Repository) Create(ctx context.Context, entry media.ConfigurationEntry) (*media.ConfigurationEntry, error) {
	const query = `
        INSERT INTO media_configurations (tenant_id, uuid, name, description, enabled, properties)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + selectColumns

	props, err := json.Marshal(entry.Properties)
	if err != nil {
		return nil, err
	}

	created, err := scanEntry(r.db.QueryRow(ctx, query,
		entry.TenantID,
		entry.UUID,
		strings.TrimSpace(entry.Name),
		strings.TrimSpace(entry.Description),
		entry.Enabled,
		props,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrConflict
		}
		return nil, err
	}
	return created, nil
}

// Update substitui nome, descrição e propriedades.
func (r *Repository) Update(ctx context.Context, entry media.ConfigurationEntry) error {
	const query = `
        UPDATE media_configurations
        SET name = $3,
            description = $4,
            properties = $5,
            updated_at = now()
        WHERE tenant_id = $1 AND uuid = $2
    `

	props, err := json.Marshal(entry.Properties)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, query, entry.TenantID, entry.UUID, strings.TrimSpace(entry.Name), strings.TrimSpace(entry.Description), props)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetEnabled habilita ou desabilita a configuração.
func (r *Repository) SetEnabled(ctx context.Context, tenantID uuid.UUID, configurationUUID string, enabled bool) error {
	const query = `
        UPDATE media_configurations
        SET enabled = $3,
            updated_at = now()
        WHERE tenant_id = $1 AND uuid = $2
    `

	tag, err := r.db.Exec(ctx, query, tenantID, configurationUUID, enabled)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete remove a configuração.
func (r *Repository) Delete(ctx context.Context, tenantID uuid.UUID, configurationUUID string) error {
	const query = `DELETE FROM media_configurations WHERE tenant_id = $1 AND uuid = $2`

	tag, err := r.db.Exec(ctx, query, tenantID, configurationUUID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanEntry(row pgx.Row) (*media.ConfigurationEntry, error) {
	var (
		entry    media.ConfigurationEntry
		propsRaw []byte
	)

	if err := row.Scan(&entry.TenantID, &entry.UUID, &entry.Name, &entry.Description, &entry.Enabled, &propsRaw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	props, err := decodeProperties(propsRaw)
	if err != nil {
		return nil, err
	}
	entry.Properties = props

	return &entry, nil
}

func decodeProperties(raw []byte) (map[string]string, error) {
	if len(raw) == 0 {
		return map[string]string{}, nil
	}
	var result map[string]string
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	if result == nil {
		return map[string]string{}, nil
	}
	return result, nil
}
