package variant

import (
	"context"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"

	"github.com/gestaozabele/midia/internal/db"
	"github.com/gestaozabele/midia/internal/media"
	"github.com/gestaozabele/midia/internal/storage"
)

const selectColumns = `id, tenant_id, asset_id, version_id, configuration_uuid, file_name, mime_type, size, width, height, storage_key, created_at`

// Finder executa as consultas do resolvedor contra media_variants.
type Finder struct {
	db    db.Querier
	blobs storage.Reader
}

// NewFinder cria o buscador de variantes.
func NewFinder(q db.Querier, blobs storage.Reader) *Finder {
	return &Finder{db: q, blobs: blobs}
}

// FindVariants monta a consulta com o builder padrão e devolve um Stream preguiçoso.
// A consulta por dimensões só ordena os candidatos; nenhum é descartado.
func (f *Finder) FindVariants(ctx context.Context, build media.BuildFunc) (media.VariantStream, error) {
	q, err := media.Build(build)
	if err != nil {
		return nil, err
	}

	var rows pgx.Rows
	switch q.Kind() {
	case media.QueryByConfiguration:
		const query = `
            SELECT ` + selectColumns + `
            FROM media_variants
            WHERE version_id = $1 AND configuration_uuid = $2
            ORDER BY created_at DESC
        `
		rows, err = f.db.Query(ctx, query, q.Asset().VersionID, q.ConfigurationUUID())
	case media.QueryByDimensions:
		const query = `
            SELECT ` + selectColumns + `
            FROM media_variants
            WHERE version_id = $1
            ORDER BY abs(width - $2) + abs(height - $3), created_at DESC
        `
		width, height := q.Dimensions()
		rows, err = f.db.Query(ctx, query, q.Asset().VersionID, width, height)
	default:
		return nil, media.ErrInvalidQuery
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", media.ErrQueryFailed, err)
	}

	return &Stream{rows: rows, blobs: f.blobs}, nil
}

// Stream percorre as linhas sob demanda. Deve ser fechado pelo consumidor.
type Stream struct {
	rows    pgx.Rows
	blobs   storage.Reader
	current *media.Variant
	err     error
	closed  bool
}

// Next avança para a próxima linha.
func (s *Stream) Next() bool {
	if s.closed || s.err != nil {
		return false
	}
	if !s.rows.Next() {
		s.current = nil
		return false
	}

	var rec Record
	if err := s.rows.Scan(&rec.ID, &rec.TenantID, &rec.AssetID, &rec.VersionID, &rec.ConfigurationUUID, &rec.FileName, &rec.MimeType, &rec.Size, &rec.Width, &rec.Height, &rec.StorageKey, &rec.CreatedAt); err != nil {
		s.err = fmt.Errorf("%w: %v", media.ErrQueryFailed, err)
		s.current = nil
		return false
	}

	s.current = media.NewVariant(rec.Attributes(), s.opener(rec.StorageKey))
	return true
}

// Variant devolve a variante da linha corrente.
func (s *Stream) Variant() *media.Variant {
	return s.current
}

// Err devolve a primeira falha de leitura.
func (s *Stream) Err() error {
	if s.err != nil {
		return s.err
	}
	if err := s.rows.Err(); err != nil {
		return fmt.Errorf("%w: %v", media.ErrQueryFailed, err)
	}
	return nil
}

// Close libera a conexão. Pode ser chamado mais de uma vez.
func (s *Stream) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.rows.Close()
}

func (s *Stream) opener(key string) media.Opener {
	blobs := s.blobs
	return func(ctx context.Context) (io.ReadCloser, error) {
		if blobs == nil {
			return nil, media.ErrNoContent
		}
		return blobs.Open(ctx, key)
	}
}
