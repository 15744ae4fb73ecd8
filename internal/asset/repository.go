package asset

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gestaozabele/midia/internal/db"
)

// Repository provê acesso à tabela media_assets.
type Repository struct {
	db db.Querier
}

// NewRepository cria um novo repositório de arquivos.
func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

const selectColumns = `id, version_id, tenant_id, file_name, mime_type, size, storage_key, created_at`

// GetVersion busca uma versão específica do arquivo.
func (r *Repository) GetVersion(ctx context.Context, assetID uuid.UUID, versionID int64) (*Record, error) {
	const query = `
        SELECT ` + selectColumns + `
        FROM media_assets
        WHERE id = $1 AND version_id = $2
    `

	return scanRecord(r.db.QueryRow(ctx, query, assetID, versionID))
}

// GetLatest busca a versão mais recente do arquivo.
func (r *Repository) GetLatest(ctx context.Context, assetID uuid.UUID) (*Record, error) {
	const query = `
        SELECT ` + selectColumns + `
        FROM media_assets
        WHERE id = $1
        ORDER BY version_id DESC
        LIMIT 1
    `

	return scanRecord(r.db.QueryRow(ctx, query, assetID))
}

// Create insere uma nova versão e devolve o registro com version_id gerado.
func (r *Repository) Create(ctx context.Context, rec Record) (*Record, error) {
	const query = `
        INSERT INTO media_assets (id, tenant_id, file_name, mime_type, size, storage_key)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + selectColumns

	return scanRecord(r.db.QueryRow(ctx, query, rec.ID, rec.TenantID, rec.FileName, rec.MimeType, rec.Size, rec.StorageKey))
}

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	if err := row.Scan(&rec.ID, &rec.VersionID, &rec.TenantID, &rec.FileName, &rec.MimeType, &rec.Size, &rec.StorageKey, &rec.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}
