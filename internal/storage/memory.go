package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// MemoryStore guarda blobs em memória. Usado em testes e execução local.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryStore cria um armazenamento vazio.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

// Upload copia o corpo para a chave informada.
func (m *MemoryStore) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	key := strings.TrimLeft(strings.TrimSpace(input.Key), "/")
	if key == "" {
		return nil, errors.New("storage: chave do objeto obrigatória")
	}

	body := make([]byte, len(input.Body))
	copy(body, input.Body)

	m.mu.Lock()
	m.objects[key] = body
	m.mu.Unlock()

	return &UploadResult{URL: "memory://" + key}, nil
}

// Open devolve uma cópia do conteúdo armazenado.
func (m *MemoryStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")

	m.mu.RLock()
	body, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}

// Delete remove a chave, se existir.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")

	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}
