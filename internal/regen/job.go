package regen

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrDuplicate indica que a versão já foi enfileirada dentro da janela de deduplicação.
var ErrDuplicate = errors.New("regen: job duplicado")

// Job é a mensagem consumida pelo pipeline externo de redimensionamento.
type Job struct {
	TenantID    uuid.UUID `json:"tenantId"`
	AssetID     uuid.UUID `json:"assetId"`
	VersionID   string    `json:"versionId"`
	FileName    string    `json:"fileName"`
	MimeType    string    `json:"mimeType"`
	RequestedAt time.Time `json:"requestedAt"`
}

// Publisher entrega jobs ao destino final.
type Publisher interface {
	Publish(ctx context.Context, job Job) error
}
