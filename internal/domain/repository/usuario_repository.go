package repository

import (
	"context"

	"github.com/tu-usuario/consignado-api/internal/domain/entity"
)

// UsuarioRepository puerto de persistencia para Usuario.
type UsuarioRepository interface {
	Create(ctx context.Context, usuario *entity.Usuario) error
	GetByID(ctx context.Context, id string) (*entity.Usuario, error)
	FindByEmail(ctx context.Context, email string) (*entity.Usuario, error)
}
