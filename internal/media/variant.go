package media

import (
	"context"
	"io"
	"strconv"
)

// Nomes de atributos de uma variante.
const (
	AttributeConfigurationUUID = "configuration-uuid"
	AttributeFileName          = "file-name"
	AttributeContentType       = "content-type"
	AttributeContentLength     = "content-length"
	AttributeWidth             = "width"
	AttributeHeight            = "height"
)

// Attributes guarda os atributos textuais de uma variante.
type Attributes map[string]string

// ConfigurationUUID devolve o UUID da configuração que gerou a variante.
func (a Attributes) ConfigurationUUID() (string, bool) {
	return a.text(AttributeConfigurationUUID)
}

// FileName devolve o nome do arquivo.
func (a Attributes) FileName() (string, bool) {
	return a.text(AttributeFileName)
}

// ContentType devolve o tipo de mídia.
func (a Attributes) ContentType() (string, bool) {
	return a.text(AttributeContentType)
}

// ContentLength devolve o tamanho em bytes.
func (a Attributes) ContentLength() (int64, bool) {
	raw, ok := a.text(AttributeContentLength)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Width devolve a largura declarada.
func (a Attributes) Width() (int, bool) {
	return parseDimension(a[AttributeWidth])
}

// Height devolve a altura declarada.
func (a Attributes) Height() (int, bool) {
	return parseDimension(a[AttributeHeight])
}

func (a Attributes) text(name string) (string, bool) {
	v, ok := a[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Variant é uma versão renderizada de um arquivo, ou o próprio original embrulhado.
type Variant struct {
	Attributes Attributes
	Original   bool

	opener Opener
}

// NewVariant cria uma variante armazenada.
func NewVariant(attributes Attributes, opener Opener) *Variant {
	return &Variant{Attributes: attributes, opener: opener}
}

// Open devolve o conteúdo da variante.
func (v *Variant) Open(ctx context.Context) (io.ReadCloser, error) {
	if v.opener == nil {
		return nil, ErrNoContent
	}
	return v.opener(ctx)
}

// originalVariant embrulha o arquivo original com os atributos da configuração pedida.
func originalVariant(asset *Asset, entry ConfigurationEntry) *Variant {
	attributes := Attributes{
		AttributeConfigurationUUID: entry.UUID,
		AttributeFileName:          asset.FileName,
		AttributeContentType:       asset.MimeType,
		AttributeContentLength:     strconv.FormatInt(asset.Size, 10),
		AttributeWidth:             entry.Properties[PropertyMaxWidth],
		AttributeHeight:            entry.Properties[PropertyMaxHeight],
	}
	return &Variant{Attributes: attributes, Original: true, opener: asset.Open}
}
