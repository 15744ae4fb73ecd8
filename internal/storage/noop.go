package storage

import (
	"context"
	"io"
)

// NoopStore devolve erro indicando que não há backend configurado.
type NoopStore struct{}

// Upload sempre retorna erro, sinalizando que o recurso não está disponível.
func (NoopStore) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	return nil, ErrNotConfigured
}

// Open sempre retorna erro, sinalizando que o recurso não está disponível.
func (NoopStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, ErrNotConfigured
}

// Delete sempre retorna erro, sinalizando que o recurso não está disponível.
func (NoopStore) Delete(ctx context.Context, key string) error {
	return ErrNotConfigured
}
