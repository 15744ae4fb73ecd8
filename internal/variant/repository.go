package variant

import (
	"context"

	"github.com/gestaozabele/midia/internal/db"
)

// Repository grava variantes produzidas.
type Repository struct {
	db db.Querier
}

// NewRepository cria um novo repositório de variantes.
func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

// Insert registra a variante e devolve a data de criação atribuída pelo banco.
func (r *Repository) Insert(ctx context.Context, rec Record) (*Record, error) {
	const query = `
        INSERT INTO media_variants (id, tenant_id, asset_id, version_id, configuration_uuid, file_name, mime_type, size, width, height, storage_key)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING created_at
    `

	if err := r.db.QueryRow(ctx, query,
		rec.ID, rec.TenantID, rec.AssetID, rec.VersionID, rec.ConfigurationUUID,
		rec.FileName, rec.MimeType, rec.Size, rec.Width, rec.Height, rec.StorageKey,
	).Scan(&rec.CreatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}
