package repository

import (
	"context"

	"github.com/tu-usuario/consignado-api/internal/domain/entity"
)

// ClienteRepository puerto de persistencia para Cliente.
type ClienteRepository interface {
	Create(ctx context.Context, cliente *entity.Cliente) error
	GetByID(ctx context.Context, id string) (*entity.Cliente, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Cliente, error)
	Update(ctx context.Context, cliente *entity.Cliente) error
	Delete(ctx context.Context, id string) error
}
