package pathinfo

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/gestaozabele/midia/internal/asset"
	"github.com/gestaozabele/midia/internal/media"
)

// AssetLookup localiza o handle do arquivo. versionID zero indica a versão mais recente.
type AssetLookup interface {
	Lookup(ctx context.Context, assetID uuid.UUID, versionID int64) (*media.Asset, error)
}

// Interpreter reconhece os formatos de caminho:
//
//	/{assetID}/{configurationUUID}
//	/{assetID}/{configurationUUID}/{fileName}
//	/{assetID}/{versionID}/{configurationUUID}/{fileName}
type Interpreter struct {
	assets AssetLookup
}

// NewInterpreter cria o interpretador de caminhos.
func NewInterpreter(assets AssetLookup) *Interpreter {
	return &Interpreter{assets: assets}
}

type parsedPath struct {
	assetID           uuid.UUID
	versionID         int64
	configurationUUID string
	fileName          string
}

// InterpretPath devolve ok=false para caminhos malformados ou arquivos inexistentes.
func (i *Interpreter) InterpretPath(ctx context.Context, path string) (media.Interpretation, bool, error) {
	parsed, ok := parse(path)
	if !ok {
		return media.Interpretation{}, false, nil
	}

	a, err := i.assets.Lookup(ctx, parsed.assetID, parsed.versionID)
	if err != nil {
		if errors.Is(err, asset.ErrNotFound) {
			return media.Interpretation{}, false, nil
		}
		return media.Interpretation{}, false, err
	}

	props := map[string]string{
		media.AttributeConfigurationUUID: parsed.configurationUUID,
	}
	if parsed.fileName != "" {
		props[media.AttributeFileName] = parsed.fileName
	}

	return media.Interpretation{Asset: a, Properties: props}, true, nil
}

func parse(path string) (parsedPath, bool) {
	var segments []string
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		if part == "" {
			return parsedPath{}, false
		}
		unescaped, err := url.PathUnescape(part)
		if err != nil {
			return parsedPath{}, false
		}
		segments = append(segments, unescaped)
	}

	var p parsedPath
	switch len(segments) {
	case 2:
		p.configurationUUID = segments[1]
	case 3:
		p.configurationUUID = segments[1]
		p.fileName = segments[2]
	case 4:
		version, err := strconv.ParseInt(segments[1], 10, 64)
		if err != nil || version <= 0 {
			return parsedPath{}, false
		}
		p.versionID = version
		p.configurationUUID = segments[2]
		p.fileName = segments[3]
	default:
		return parsedPath{}, false
	}

	assetID, err := uuid.Parse(segments[0])
	if err != nil {
		return parsedPath{}, false
	}
	p.assetID = assetID

	p.configurationUUID = strings.TrimSpace(p.configurationUUID)
	if p.configurationUUID == "" {
		return parsedPath{}, false
	}
	return p, true
}
