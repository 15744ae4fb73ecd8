package variant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/gestaozabele/midia/internal/storage"
)

// Inserter persiste registros de variantes.
type Inserter interface {
	Insert(ctx context.Context, rec Record) (*Record, error)
}

// BlobWriter grava o conteúdo e desfaz o upload quando o registro falha.
type BlobWriter interface {
	storage.Uploader
	storage.Deleter
}

// Service registra variantes geradas fora do processo.
type Service struct {
	store Inserter
	blobs BlobWriter
}

// NewService cria o serviço de registro de variantes.
func NewService(store Inserter, blobs BlobWriter) *Service {
	return &Service{store: store, blobs: blobs}
}

// Register envia o conteúdo e grava a variante da versão informada.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Record, error) {
	if input.Asset == nil {
		return nil, fmt.Errorf("%w: arquivo obrigatório", ErrInvalidInput)
	}
	configurationUUID := strings.TrimSpace(input.ConfigurationUUID)
	if configurationUUID == "" {
		return nil, fmt.Errorf("%w: configuração obrigatória", ErrInvalidInput)
	}
	if input.Width <= 0 || input.Height <= 0 {
		return nil, fmt.Errorf("%w: dimensões devem ser positivas", ErrInvalidInput)
	}
	if len(input.Body) == 0 {
		return nil, fmt.Errorf("%w: corpo vazio", ErrInvalidInput)
	}

	fileName := path.Base(strings.TrimSpace(input.FileName))
	if fileName == "." || fileName == "/" {
		fileName = input.Asset.FileName
	}
	mimeType := strings.TrimSpace(input.MimeType)
	if mimeType == "" {
		mimeType = http.DetectContentType(input.Body)
	}

	a := input.Asset
	id := uuid.New()
	key := path.Join(a.TenantID.String(), a.ID.String(), a.VersionKey(), "variants", configurationUUID, id.String(), fileName)
	if _, err := s.blobs.Upload(ctx, storage.UploadInput{Key: key, Body: input.Body, ContentType: mimeType}); err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}

	rec, err := s.store.Insert(ctx, Record{
		ID:                id,
		TenantID:          a.TenantID,
		AssetID:           a.ID,
		VersionID:         a.VersionID,
		ConfigurationUUID: configurationUUID,
		FileName:          fileName,
		MimeType:          mimeType,
		Size:              int64(len(input.Body)),
		Width:             input.Width,
		Height:            input.Height,
		StorageKey:        key,
	})
	if err != nil {
		if delErr := s.blobs.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			return nil, errors.Join(err, delErr)
		}
		return nil, err
	}
	return rec, nil
}
