package asset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gestaozabele/midia/internal/media"
	"github.com/gestaozabele/midia/internal/storage"
)

// Store abstrai a persistência das versões de arquivo.
type Store interface {
	GetVersion(ctx context.Context, assetID uuid.UUID, versionID int64) (*Record, error)
	GetLatest(ctx context.Context, assetID uuid.UUID) (*Record, error)
	Create(ctx context.Context, rec Record) (*Record, error)
}

// Service monta handles de arquivos e registra novas versões.
type Service struct {
	store   Store
	blobs   storage.Store
	trigger media.RegenerationTrigger
	logger  zerolog.Logger
}

// NewService cria o serviço de arquivos. trigger pode ser nil.
func NewService(store Store, blobs storage.Store, trigger media.RegenerationTrigger, logger zerolog.Logger) *Service {
	return &Service{store: store, blobs: blobs, trigger: trigger, logger: logger}
}

// Lookup devolve o handle do arquivo. versionID zero seleciona a versão mais recente.
func (s *Service) Lookup(ctx context.Context, assetID uuid.UUID, versionID int64) (*media.Asset, error) {
	var (
		rec *Record
		err error
	)
	if versionID > 0 {
		rec, err = s.store.GetVersion(ctx, assetID, versionID)
	} else {
		rec, err = s.store.GetLatest(ctx, assetID)
	}
	if err != nil {
		return nil, err
	}
	return s.toAsset(rec), nil
}

// Register envia o conteúdo ao storage, grava a versão e agenda a geração de variantes.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Record, error) {
	if input.TenantID == uuid.Nil {
		return nil, fmt.Errorf("%w: tenant obrigatório", ErrInvalidInput)
	}
	if len(input.Body) == 0 {
		return nil, fmt.Errorf("%w: corpo vazio", ErrInvalidInput)
	}

	fileName := sanitizeFileName(input.FileName)
	if fileName == "" {
		return nil, fmt.Errorf("%w: nome do arquivo obrigatório", ErrInvalidInput)
	}

	mimeType := strings.TrimSpace(input.MimeType)
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(input.Body)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("%w: tipo %s não suportado", ErrInvalidInput, mimeType)
	}

	assetID := input.AssetID
	if assetID == uuid.Nil {
		assetID = uuid.New()
	} else {
		current, err := s.store.GetLatest(ctx, assetID)
		if err != nil {
			return nil, err
		}
		if current.TenantID != input.TenantID {
			return nil, ErrNotFound
		}
	}

	key := path.Join(input.TenantID.String(), assetID.String(), uuid.NewString(), fileName)
	if _, err := s.blobs.Upload(ctx, storage.UploadInput{Key: key, Body: input.Body, ContentType: mimeType}); err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}

	rec, err := s.store.Create(ctx, Record{
		ID:         assetID,
		TenantID:   input.TenantID,
		FileName:   fileName,
		MimeType:   mimeType,
		Size:       int64(len(input.Body)),
		StorageKey: key,
	})
	if err != nil {
		if delErr := s.blobs.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			s.logger.Warn().Err(delErr).Str("key", key).Msg("asset: falha ao remover blob órfão")
		}
		return nil, err
	}

	if s.trigger != nil {
		a := s.toAsset(rec)
		s.trigger.Trigger(a, a.VersionKey())
	}

	s.logger.Info().Str("asset", rec.ID.String()).Int64("version", rec.VersionID).Msg("asset: versão registrada")
	return rec, nil
}

func (s *Service) toAsset(rec *Record) *media.Asset {
	key := rec.StorageKey
	blobs := s.blobs
	return media.NewAsset(rec.ID, rec.VersionID, rec.TenantID, rec.FileName, rec.MimeType, rec.Size, func(ctx context.Context) (io.ReadCloser, error) {
		body, err := blobs.Open(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("asset %s: %w", rec.ID, err)
		}
		return body, nil
	})
}

func sanitizeFileName(name string) string {
	name = strings.TrimSpace(path.Base(strings.ReplaceAll(name, "\\", "/")))
	if name == "." || name == "/" {
		return ""
	}
	return name
}
