package asset

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("arquivo não encontrado")
	ErrInvalidInput = errors.New("arquivo inválido")
)

// Record representa uma versão de arquivo original persistida.
type Record struct {
	ID         uuid.UUID `json:"id"`
	VersionID  int64     `json:"version_id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	FileName   string    `json:"file_name"`
	MimeType   string    `json:"mime_type"`
	Size       int64     `json:"size"`
	StorageKey string    `json:"storage_key"`
	CreatedAt  time.Time `json:"created_at"`
}

// RegisterInput descreve o envio de uma nova versão de arquivo.
type RegisterInput struct {
	TenantID uuid.UUID
	// AssetID vazio cria um novo arquivo; preenchido adiciona uma versão.
	AssetID  uuid.UUID
	FileName string
	MimeType string
	Body     []byte
}
