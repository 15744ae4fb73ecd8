package variant

import (
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/gestaozabele/midia/internal/media"
)

// ErrInvalidInput indica dados inválidos ao registrar uma variante.
var ErrInvalidInput = errors.New("variant: entrada inválida")

// Record representa uma linha de media_variants.
type Record struct {
	ID                uuid.UUID `json:"id"`
	TenantID          uuid.UUID `json:"tenantId"`
	AssetID           uuid.UUID `json:"assetId"`
	VersionID         int64     `json:"versionId"`
	ConfigurationUUID string    `json:"configurationUuid"`
	FileName          string    `json:"fileName"`
	MimeType          string    `json:"mimeType"`
	Size              int64     `json:"size"`
	Width             int       `json:"width"`
	Height            int       `json:"height"`
	StorageKey        string    `json:"-"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Attributes converte o registro para os atributos textuais da variante.
func (r Record) Attributes() media.Attributes {
	return media.Attributes{
		media.AttributeConfigurationUUID: r.ConfigurationUUID,
		media.AttributeFileName:          r.FileName,
		media.AttributeContentType:       r.MimeType,
		media.AttributeContentLength:     strconv.FormatInt(r.Size, 10),
		media.AttributeWidth:             strconv.Itoa(r.Width),
		media.AttributeHeight:            strconv.Itoa(r.Height),
	}
}

// RegisterInput descreve uma variante produzida pelo pipeline de redimensionamento.
type RegisterInput struct {
	Asset             *media.Asset
	ConfigurationUUID string
	FileName          string
	MimeType          string
	Width             int
	Height            int
	Body              []byte
}
