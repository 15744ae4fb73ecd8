package media

import (
	"errors"
	"fmt"
)

var (
	// ErrQueryFailed sinaliza falha de negócio na consulta de variantes.
	ErrQueryFailed = errors.New("media: consulta de variantes falhou")
	// ErrResolveFailed identifica falhas de resolução propagadas ao chamador.
	ErrResolveFailed = errors.New("media: falha ao resolver variante")
	// ErrInvalidQuery é devolvido quando a função de montagem não produz consulta válida.
	ErrInvalidQuery = errors.New("media: consulta inválida")
	// ErrNoContent indica handle sem leitor de conteúdo.
	ErrNoContent = errors.New("media: conteúdo indisponível")
)

// ResolveError embrulha falhas do armazenamento de variantes.
type ResolveError struct {
	Stage Source
	Err   error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("media: resolução (%s) falhou: %v", e.Stage, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrResolveFailed).
func (e *ResolveError) Is(target error) bool {
	return target == ErrResolveFailed
}
