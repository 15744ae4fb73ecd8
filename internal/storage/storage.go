package storage

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNotConfigured indica ausência de backend de armazenamento.
	ErrNotConfigured = errors.New("storage: backend não configurado")
	// ErrObjectNotFound indica chave inexistente no bucket.
	ErrObjectNotFound = errors.New("storage: objeto não encontrado")
)

// UploadInput representa uma operação de upload simples.
type UploadInput struct {
	Key          string
	Body         []byte
	ContentType  string
	CacheControl string
}

// UploadResult descreve o artefato persistido.
type UploadResult struct {
	URL  string
	ETag string
}

// Uploader define comportamento básico para armazenar blobs.
type Uploader interface {
	Upload(ctx context.Context, input UploadInput) (*UploadResult, error)
}

// Reader abre blobs armazenados para leitura.
type Reader interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// Deleter remove blobs. Chave inexistente não é erro.
type Deleter interface {
	Delete(ctx context.Context, key string) error
}

// Store reúne escrita, leitura e remoção.
type Store interface {
	Uploader
	Reader
	Deleter
}
