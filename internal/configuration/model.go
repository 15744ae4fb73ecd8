package configuration

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound             = errors.New("configuração não encontrada")
	ErrConflict             = errors.New("configuração já cadastrada")
	ErrInvalidConfiguration = errors.New("configuração inválida")
)

// CreateInput contém os campos necessários para registrar uma configuração.
type CreateInput struct {
	TenantID    uuid.UUID
	UUID        string
	Name        string
	Description string
	MaxWidth    int
	MaxHeight   int
	Enabled     *bool
}

// UpdateInput altera nome, descrição e dimensões de uma configuração existente.
type UpdateInput struct {
	Name        string
	Description string
	MaxWidth    int
	MaxHeight   int
}
