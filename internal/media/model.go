package media

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Opener abre o conteúdo binário sob demanda.
type Opener func(ctx context.Context) (io.ReadCloser, error)

// Asset representa a versão original armazenada de um arquivo.
type Asset struct {
	ID        uuid.UUID
	VersionID int64
	TenantID  uuid.UUID
	FileName  string
	MimeType  string
	Size      int64

	opener Opener
}

// NewAsset monta o handle do arquivo original com o leitor informado.
func NewAsset(id uuid.UUID, versionID int64, tenantID uuid.UUID, fileName, mimeType string, size int64, opener Opener) *Asset {
	return &Asset{
		ID:        id,
		VersionID: versionID,
		TenantID:  tenantID,
		FileName:  fileName,
		MimeType:  mimeType,
		Size:      size,
		opener:    opener,
	}
}

// Open devolve o conteúdo do arquivo original.
func (a *Asset) Open(ctx context.Context) (io.ReadCloser, error) {
	if a.opener == nil {
		return nil, ErrNoContent
	}
	return a.opener(ctx)
}

// VersionKey é o identificador de versão repassado à regeneração.
func (a *Asset) VersionKey() string {
	return strconv.FormatInt(a.VersionID, 10)
}

const (
	PropertyMaxWidth  = "max-width"
	PropertyMaxHeight = "max-height"
)

// ConfigurationEntry descreve uma política de redimensionamento de um tenant.
type ConfigurationEntry struct {
	UUID        string            `json:"uuid"`
	TenantID    uuid.UUID         `json:"tenant_id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Enabled     bool              `json:"enabled"`
	Properties  map[string]string `json:"properties"`
}

// MaxWidth devolve a largura máxima declarada.
func (c ConfigurationEntry) MaxWidth() (int, bool) {
	return parseDimension(c.Properties[PropertyMaxWidth])
}

// MaxHeight devolve a altura máxima declarada.
func (c ConfigurationEntry) MaxHeight() (int, bool) {
	return parseDimension(c.Properties[PropertyMaxHeight])
}

// Dimensions devolve largura e altura, usando zero para valores ausentes ou inválidos.
func (c ConfigurationEntry) Dimensions() (int, int) {
	width, _ := c.MaxWidth()
	height, _ := c.MaxHeight()
	return width, height
}

func parseDimension(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Request é a requisição recebida pela camada de transporte.
type Request struct {
	Path string
}

// Interpretation é o resultado da interpretação do caminho.
type Interpretation struct {
	Asset      *Asset
	Properties map[string]string
}

// Source indica de onde veio a variante devolvida.
type Source string

const (
	SourceNone     Source = ""
	SourceExact    Source = "exact"
	SourceClosest  Source = "closest"
	SourceOriginal Source = "original"
)

// Result é o resultado opcional de uma resolução.
type Result struct {
	Variant *Variant
	Source  Source
}

// Found informa se existe variante para servir.
func (r Result) Found() bool {
	return r.Variant != nil
}
