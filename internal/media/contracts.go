package media

import (
	"context"

	"github.com/google/uuid"
)

// PathInterpreter traduz o caminho da requisição em arquivo e propriedades.
// ok=false significa caminho não reconhecido.
type PathInterpreter interface {
	InterpretPath(ctx context.Context, path string) (Interpretation, bool, error)
}

// ConfigurationResolver localiza configurações por tenant e UUID.
type ConfigurationResolver interface {
	Resolve(ctx context.Context, tenantID uuid.UUID, configurationUUID string) (ConfigurationEntry, bool, error)
}

// VariantStream é uma sequência preguiçosa de variantes, consumida uma única vez.
type VariantStream interface {
	Next() bool
	Variant() *Variant
	Err() error
	Close()
}

// VariantFinder executa consultas contra o armazenamento de variantes.
// Falhas de negócio devem embrulhar ErrQueryFailed.
type VariantFinder interface {
	FindVariants(ctx context.Context, build BuildFunc) (VariantStream, error)
}

// RegenerationTrigger agenda a geração assíncrona das variantes de um arquivo.
type RegenerationTrigger interface {
	Trigger(asset *Asset, versionID string)
}

// SliceStream expõe uma lista em memória como VariantStream.
func SliceStream(variants ...*Variant) VariantStream {
	return &sliceStream{items: variants, pos: -1}
}

type sliceStream struct {
	items  []*Variant
	pos    int
	closed bool
}

func (s *sliceStream) Next() bool {
	if s.closed || s.pos+1 >= len(s.items) {
		return false
	}
	s.pos++
	return true
}

func (s *sliceStream) Variant() *Variant {
	if s.pos < 0 || s.pos >= len(s.items) {
		return nil
	}
	return s.items[s.pos]
}

func (s *sliceStream) Err() error { return nil }

func (s *sliceStream) Close() { s.closed = true }
